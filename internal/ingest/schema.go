package ingest

// documentSchema validates an import document before anything touches the
// store. The store itself performs no validation, so malformed documents
// have to be rejected at this boundary.
var documentSchema = map[string]any{
	"type": "object",
	"$defs": map[string]any{
		"uuid": map[string]any{
			"type":    "string",
			"pattern": "^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$",
		},
		"elementType": map[string]any{
			"type": "string",
			"enum": []any{"ACTIVITY", "PATHWAY", "INTERACTIVE", "COMPONENT"},
		},
		"probability": map[string]any{
			"type":    "number",
			"minimum": 0,
			"maximum": 1,
		},
		"completion": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"value":      map[string]any{"type": "number"},
				"confidence": map[string]any{"type": "number"},
			},
			"additionalProperties": false,
		},
		"element": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"elementId":   map[string]any{"$ref": "#/$defs/uuid"},
				"elementType": map[string]any{"$ref": "#/$defs/elementType"},
			},
			"required":             []any{"elementId", "elementType"},
			"additionalProperties": false,
		},
		"childMap": map[string]any{
			"type":                 "object",
			"additionalProperties": map[string]any{"type": "number"},
		},
		"record": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":                         map[string]any{"$ref": "#/$defs/uuid"},
				"deploymentId":               map[string]any{"$ref": "#/$defs/uuid"},
				"changeId":                   map[string]any{"$ref": "#/$defs/uuid"},
				"coursewareElementId":        map[string]any{"$ref": "#/$defs/uuid"},
				"coursewareElementType":      map[string]any{"$ref": "#/$defs/elementType"},
				"studentId":                  map[string]any{"$ref": "#/$defs/uuid"},
				"attemptId":                  map[string]any{"$ref": "#/$defs/uuid"},
				"evaluationId":               map[string]any{"$ref": "#/$defs/uuid"},
				"completion":                 map[string]any{"$ref": "#/$defs/completion"},
				"childCompletionValues":      map[string]any{"$ref": "#/$defs/childMap"},
				"childCompletionConfidences": map[string]any{"$ref": "#/$defs/childMap"},
				"completedWalkables": map[string]any{
					"type":  "array",
					"items": map[string]any{"$ref": "#/$defs/uuid"},
				},
				"currentWalkable":     map[string]any{"$ref": "#/$defs/element"},
				"inProgress":          map[string]any{"$ref": "#/$defs/element"},
				"pLn":                 map[string]any{"$ref": "#/$defs/probability"},
				"pLnMinusGivenActual": map[string]any{"$ref": "#/$defs/probability"},
				"pCorrect":            map[string]any{"$ref": "#/$defs/probability"},
			},
			"required": []any{
				"id", "deploymentId", "changeId", "coursewareElementId",
				"coursewareElementType", "studentId", "attemptId", "evaluationId",
			},
			"additionalProperties": false,
		},
	},
	"properties": map[string]any{
		"attempts": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":                    map[string]any{"$ref": "#/$defs/uuid"},
					"parentId":              map[string]any{"$ref": "#/$defs/uuid"},
					"deploymentId":          map[string]any{"$ref": "#/$defs/uuid"},
					"coursewareElementId":   map[string]any{"$ref": "#/$defs/uuid"},
					"coursewareElementType": map[string]any{"$ref": "#/$defs/elementType"},
					"studentId":             map[string]any{"$ref": "#/$defs/uuid"},
					"value":                 map[string]any{"type": "integer", "minimum": 1},
				},
				"required": []any{
					"id", "deploymentId", "coursewareElementId",
					"coursewareElementType", "studentId", "value",
				},
				"additionalProperties": false,
			},
		},
		"progress": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"kind": map[string]any{
						"type": "string",
						"enum": []any{
							"GENERAL", "ACTIVITY", "LINEAR", "FREE",
							"GRAPH", "RANDOM", "BKT",
						},
					},
					"record": map[string]any{"$ref": "#/$defs/record"},
				},
				"required":             []any{"kind", "record"},
				"additionalProperties": false,
				"allOf": []any{
					map[string]any{
						"if": map[string]any{
							"properties": map[string]any{
								"kind": map[string]any{"const": "BKT"},
							},
						},
						"then": map[string]any{
							"properties": map[string]any{
								"record": map[string]any{
									"required": []any{"pLn", "pLnMinusGivenActual", "pCorrect"},
								},
							},
						},
					},
					map[string]any{
						"if": map[string]any{
							"properties": map[string]any{
								"kind": map[string]any{"const": "GRAPH"},
							},
						},
						"then": map[string]any{
							"properties": map[string]any{
								"record": map[string]any{
									"required": []any{"currentWalkable"},
								},
							},
						},
					},
				},
			},
		},
	},
	"additionalProperties": false,
}
