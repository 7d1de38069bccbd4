// Command webbuild bundles the browser client for embedding. Run it
// through go generate in the server package.
package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"
)

func main() {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("getwd: %v", err)
	}

	result := api.Build(api.BuildOptions{
		EntryPoints:   []string{filepath.Join(wd, "web", "src", "main.ts")},
		Outfile:       filepath.Join(wd, "web", "client.js"),
		AbsWorkingDir: wd,
		Bundle:        true,
		Format:        api.FormatIIFE,
		Target:        api.ES2018,
		Platform:      api.PlatformBrowser,
		LogLevel:      api.LogLevelInfo,
		Sourcemap:     api.SourceMapInline,
		Write:         true,
		Loader: map[string]api.Loader{
			".ts": api.LoaderTS,
		},
	})
	if len(result.Errors) > 0 {
		for _, msg := range result.Errors {
			log.Printf("esbuild: %s", msg.Text)
		}
		log.Fatalf("bundle failed with %d error(s)", len(result.Errors))
	}
}
