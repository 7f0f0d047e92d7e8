package config

// Prompt and label texts by UI language. The chat language (the language the
// assistant is asked to answer in) is independent and carried in the system
// prompt.
var promptTexts = map[string]map[string]string{
	"en": {
		"prompt_summarize":          "summarize the content in the references",
		"prompt_summarizePage":      "summarize the content in this page",
		"prompt_summarizeSelection": "summarize the following selection content",
		"prompt_pageReference":      "Please answer user's question according to following web page:",
		"prompt_selectionReference": "Please answer user's question according to following selection content:",
		"prompt_system":             "You are a smart assistant, please try to answer user's questions as accurately as possible.",
		"prompt_useReferences":      "Please refer to the following materials in your answers:",
	},
	"zh": {
		"prompt_summarize":          "总结参考资料里的内容",
		"prompt_summarizePage":      "总结这个页面的内容",
		"prompt_summarizeSelection": "总结这段选中内容",
		"prompt_pageReference":      "请根据这个网页的内容来回答用户的提问：",
		"prompt_selectionReference": "请根据下面这段选中的内容来回答用户的提问：",
		"prompt_system":             "你是一个智能助手，请尽量准确的回答用户的问题。",
		"prompt_useReferences":      "请参考以下的资料来回答：",
	},
}

// PromptText returns the localized text for key, falling back to English for
// unknown languages or keys.
func PromptText(lang, key string) string {
	if texts, ok := promptTexts[lang]; ok {
		if text, ok := texts[key]; ok {
			return text
		}
	}
	return promptTexts["en"][key]
}
