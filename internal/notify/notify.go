package notify

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Key identifies a user-facing notification. The English text doubles as the key.
type Key string

const (
	StudentFound    Key = "Student found!"
	StudentNotFound Key = "Student not found"
	SearchFailed    Key = "Something went wrong while searching"
	InvalidID       Key = "Please enter a valid student ID"
)

var supported = []language.Tag{language.Arabic, language.English}

var matcher = language.NewMatcher(supported)

func init() {
	catalog := map[Key]string{
		StudentFound:    "تم العثور على بيانات الطالب!",
		StudentNotFound: "لم يتم العثور على الطالب",
		SearchFailed:    "حدث خطأ أثناء البحث",
		InvalidID:       "يرجى إدخال رقم طالب صحيح",
	}
	for key, text := range catalog {
		_ = message.SetString(language.Arabic, string(key), text)
		_ = message.SetString(language.English, string(key), string(key))
	}
}

// Localizer renders notifications in one language
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// ForRequest picks a supported language from an Accept-Language header,
// falling back to fallback when nothing matches.
func ForRequest(acceptLanguage string, fallback language.Tag) *Localizer {
	tag := fallback
	if acceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(tags) > 0 {
			if _, i, conf := matcher.Match(tags...); conf != language.No {
				tag = supported[i]
			}
		}
	}
	return &Localizer{tag: tag, printer: message.NewPrinter(tag)}
}

func (l *Localizer) Language() language.Tag {
	return l.tag
}

func (l *Localizer) Text(key Key) string {
	return l.printer.Sprintf(string(key))
}

// ParseLanguage parses a configured default language, falling back to Arabic
func ParseLanguage(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return language.Arabic
	}
	_, i, conf := matcher.Match(tag)
	if conf == language.No {
		return language.Arabic
	}
	return supported[i]
}
