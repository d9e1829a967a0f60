package extract

// JSON-Schema maps (draft 2020-12 subset) for each record variant. These are
// validated locally against the model output; a missing required field or a
// wrong-typed value is a ParseError, never silently defaulted.

func requiredString() map[string]any {
	return map[string]any{"type": "string", "minLength": 1}
}

func optionalString() map[string]any {
	return map[string]any{"type": "string"}
}

func eventSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"title":       requiredString(),
			"date":        requiredString(),
			"time":        requiredString(),
			"host":        optionalString(),
			"endDate":     optionalString(),
			"endTime":     optionalString(),
			"location":    optionalString(),
			"description": optionalString(),
		},
		"required": []string{"title", "date", "time"},
	}
}

func songSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"title":        requiredString(),
			"artist":       requiredString(),
			"album":        optionalString(),
			"duration":     optionalString(),
			"spotifyId":    optionalString(),
			"youtubeId":    optionalString(),
			"appleMusicId": optionalString(),
		},
		"required": []string{"title", "artist"},
	}
}

func videoSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"title":       requiredString(),
			"channel":     requiredString(),
			"url":         optionalString(),
			"description": optionalString(),
			"thumbnail":   optionalString(),
			"videoId":     optionalString(),
		},
		"required": []string{"title", "channel"},
	}
}

func restaurantSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":    requiredString(),
			"address": requiredString(),
			"cuisine": optionalString(),
			"rating":  map[string]any{"type": "number", "minimum": 0.0, "maximum": 5.0},
			"coordinates": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"lat": map[string]any{"type": "number"},
					"lng": map[string]any{"type": "number"},
				},
				"required": []string{"lat", "lng"},
			},
			"phone":   optionalString(),
			"website": optionalString(),
		},
		"required": []string{"name", "address"},
	}
}

func linkSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"title":       requiredString(),
			"url":         requiredString(),
			"description": optionalString(),
			"favicon":     optionalString(),
		},
		"required": []string{"title", "url"},
	}
}

func socialPostSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"author":    requiredString(),
			"content":   requiredString(),
			"platform":  optionalString(),
			"url":       optionalString(),
			"timestamp": optionalString(),
			"imageUrl":  optionalString(),
		},
		"required": []string{"author", "content"},
	}
}

func noteSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"title":   requiredString(),
			"content": requiredString(),
			"tags": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"source": optionalString(),
		},
		"required": []string{"title", "content"},
	}
}
