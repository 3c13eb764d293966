package importer

// menuSchema constrains the menu document uploaded by operators. Draft
// 2020-12 subset; compiled once at package init.
const menuSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"recipes": {
			"type": "array",
			"items": {
				"type": "object",
				"additionalProperties": false,
				"required": ["item_key", "display_name"],
				"properties": {
					"item_key": {"type": "string", "minLength": 1},
					"category": {"type": "string"},
					"display_name": {"type": "string", "minLength": 1},
					"tax_rate": {"type": "number", "minimum": 0, "maximum": 0.30},
					"lines": {
						"type": "array",
						"items": {
							"type": "object",
							"additionalProperties": false,
							"required": ["ingredient", "unit", "qty_per_portion"],
							"properties": {
								"ingredient": {"type": "string", "minLength": 1},
								"unit": {"type": "string", "minLength": 1},
								"qty_per_portion": {"type": "number", "exclusiveMinimum": 0}
							}
						}
					}
				}
			}
		},
		"yields": {
			"type": "array",
			"items": {
				"type": "object",
				"additionalProperties": false,
				"required": ["ingredient", "unit", "usable_yield"],
				"properties": {
					"ingredient": {"type": "string", "minLength": 1},
					"unit": {"type": "string", "minLength": 1},
					"usable_yield": {"type": "number", "exclusiveMinimum": 0, "maximum": 1}
				}
			}
		},
		"margins": {
			"type": "array",
			"items": {
				"type": "object",
				"additionalProperties": false,
				"required": ["category", "target_margin"],
				"properties": {
					"category": {"type": "string", "minLength": 1},
					"target_margin": {"type": "number", "minimum": 0, "exclusiveMaximum": 1}
				}
			}
		}
	}
}`
