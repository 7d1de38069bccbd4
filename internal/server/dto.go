package server

// Outbound WebSocket message shapes. Every message carries a type tag
// so the client can switch on it.

type helloMsg struct {
	Type      string   `json:"type"` // "hello"
	Session   string   `json:"session"`
	Languages []string `json:"languages"`
	Language  string   `json:"language"`
}

type lineMsg struct {
	Type   string `json:"type"` // "line"
	Text   string `json:"text"`
	Cursor string `json:"cursor,omitempty"`
}

type expressionMsg struct {
	Type string `json:"type"` // "expression"
	ID   int    `json:"id"`
}

type optionDTO struct {
	Text     string `json:"text"`
	Disabled bool   `json:"disabled,omitempty"`
}

type optionsMsg struct {
	Type    string      `json:"type"` // "options" or "options_clear"
	Options []optionDTO `json:"options,omitempty"`
}

type languageMsg struct {
	Type     string `json:"type"` // "language"
	Language string `json:"language"`
	OK       bool   `json:"ok"`
}

type endMsg struct {
	Type string `json:"type"` // "end"
}

type errorMsg struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}
