package toolcall

// Definition describes one tool for catalog responses and LLM prompts. The
// parameter schema follows the JSON Schema subset most models accept.
type Definition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

func Definitions() []Definition {
	return []Definition{
		{
			Name:        ToolSearch,
			Description: "Search the web. Rotates across configured search providers and falls back automatically when one fails or is rate limited.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "The search query",
					},
					"max_results": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of results (default 10)",
					},
					"domain": map[string]interface{}{
						"type":        "string",
						"description": "Restrict results to this domain",
					},
					"date_range": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"day", "week", "month", "year"},
						"description": "Restrict results by recency",
					},
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Result language code (default en)",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        ToolFetch,
			Description: "Fetch a web page and extract its readable content, title, and metadata.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"url": map[string]interface{}{
						"type":        "string",
						"description": "The http(s) URL to fetch",
					},
					"max_content_length": map[string]interface{}{
						"type":        "integer",
						"description": "Byte cap on the response body (default 50000)",
					},
					"timeout": map[string]interface{}{
						"type":        "integer",
						"description": "Request timeout in milliseconds (default 10000)",
					},
					"follow_redirects": map[string]interface{}{
						"type":        "boolean",
						"description": "Follow HTTP redirects (default true)",
					},
					"clean_content": map[string]interface{}{
						"type":        "boolean",
						"description": "Strip navigation, ads, and script chrome (default true)",
					},
				},
				"required": []string{"url"},
			},
		},
	}
}
