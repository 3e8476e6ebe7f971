package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "got").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":   "invalid type",
		"required":       "required property missing",
		"unknown_key":    "unknown key",
		"invalid_enum":   "value is not one of the enum members",
		"invalid_format": "invalid format",
		"duplicate_key":  "duplicate key",
		"too_deep":       "maximum nesting depth exceeded",
		"parse_error":    "parse error",
	},
	"ja": {
		"invalid_type":   "型が不正です",
		"required":       "必須プロパティが不足しています",
		"unknown_key":    "未知のキーです",
		"invalid_enum":   "列挙値のいずれにも一致しません",
		"invalid_format": "形式が不正です",
		"duplicate_key":  "キーが重複しています",
		"too_deep":       "ネストが深すぎます",
		"parse_error":    "解析エラー",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	// "expected X, got Y" details are appended in English for both languages;
	// they name JSON kinds, which are not translated.
	if exp := data["expected"]; exp != "" {
		var b strings.Builder
		b.WriteString(msg)
		b.WriteString(" (expected ")
		b.WriteString(exp)
		if got := data["got"]; got != "" {
			b.WriteString(", got ")
			b.WriteString(got)
		}
		b.WriteString(")")
		return b.String()
	}
	return msg
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
