package gemini

// Wire types for the generateContent endpoint. Field names mirror the REST
// API's camelCase JSON.

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMIMEType   string        `json:"responseMimeType,omitempty"`
	ResponseSchema     *schema       `json:"responseSchema,omitempty"`
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

// schema is the subset of the OpenAPI schema dialect the structured-output
// API accepts. Type values are uppercase ("OBJECT", "ARRAY", "STRING").
type schema struct {
	Type       string             `json:"type"`
	Items      *schema            `json:"items,omitempty"`
	Properties map[string]*schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

type speechConfig struct {
	MultiSpeakerVoiceConfig *multiSpeakerVoiceConfig `json:"multiSpeakerVoiceConfig,omitempty"`
}

type multiSpeakerVoiceConfig struct {
	SpeakerVoiceConfigs []speakerVoiceConfig `json:"speakerVoiceConfigs"`
}

type speakerVoiceConfig struct {
	Speaker     string      `json:"speaker"`
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
	Error      *apiError   `json:"error"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// firstText returns the first non-empty text part across candidates along
// with the first finish reason seen.
func firstText(resp *generateContentResponse) (string, string) {
	var finishReason string
	if resp == nil {
		return "", finishReason
	}
	for _, cand := range resp.Candidates {
		if finishReason == "" {
			finishReason = cand.FinishReason
		}
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				return p.Text, finishReason
			}
		}
	}
	return "", finishReason
}

// firstInlineData returns the first inline payload across candidates along
// with the first finish reason seen.
func firstInlineData(resp *generateContentResponse) (string, string) {
	var finishReason string
	if resp == nil {
		return "", finishReason
	}
	for _, cand := range resp.Candidates {
		if finishReason == "" {
			finishReason = cand.FinishReason
		}
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				return p.InlineData.Data, finishReason
			}
		}
	}
	return "", finishReason
}
