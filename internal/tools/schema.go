package tools

func timestampInputSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Path to the subtitle file",
			},
			"timestamp": map[string]any{
				"type":        "string",
				"description": "Target time in HH:MM:SS,mmm form, e.g. 00:12:34,567",
				"pattern":     `^\d{2}:\d{2}:\d{2},\d{3}$`,
			},
		},
		"required": []string{"path", "timestamp"},
	}
}

func lineWindowInputSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Path to the subtitle file",
			},
			"lineNumber": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"description": "1-based line number to read around",
			},
		},
		"required": []string{"path", "lineNumber"},
	}
}
