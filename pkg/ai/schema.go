package ai

import "google.golang.org/genai"

func stringSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

func stringList() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: stringSchema()}
}

func objectOf(required []string, fields ...string) *genai.Schema {
	props := make(map[string]*genai.Schema, len(fields))
	for _, f := range fields {
		props[f] = stringSchema()
	}
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

// AnalysisSchema mirrors entities.SalesVisitAnalysis for Gemini's structured output.
// keyMoments swaps the full transcript for the condensed key_moments list.
func AnalysisSchema(keyMoments bool) *genai.Schema {
	summary := objectOf([]string{"title", "time", "location", "participants", "text"}, "title", "time", "location", "text")
	summary.Properties["participants"] = stringList()

	portrait := objectOf(nil, "type", "urgency")
	portrait.Properties["concerns"] = stringList()

	performance := objectOf(nil, "pros", "style")
	performance.Properties["cons"] = stringList()

	guidance := &genai.Schema{
		Type:  genai.TypeArray,
		Items: objectOf(nil, "original_q", "subtext", "coach_comment", "coaching_script"),
	}

	insights := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"battle_evaluation":    stringSchema(),
			"customer_intent":      stringSchema(),
			"customer_portrait":    portrait,
			"sales_performance":    performance,
			"psychological_change": stringList(),
			"coaching_guidance":    guidance,
			"competitor_defense":   stringSchema(),
			"next_steps":           objectOf(nil, "method", "owner", "goal"),
		},
	}

	root := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary":    summary,
			"highlights": stringList(),
			"insights":   insights,
		},
	}

	list := "transcript"
	if keyMoments {
		list = "key_moments"
		root.Properties["key_moments"] = &genai.Schema{
			Type:  genai.TypeArray,
			Items: objectOf(nil, "speaker", "time", "text", "insight"),
		}
	} else {
		root.Properties["transcript"] = &genai.Schema{
			Type:  genai.TypeArray,
			Items: objectOf(nil, "speaker", "time", "text"),
		}
	}
	root.Required = []string{"summary", "highlights", list, "insights"}
	return root
}
