package translation

import "github.com/FACorreiaa/go-heritage-routes/internal/types"

const SourceLanguage = "en"

var languages = []types.Language{
	{Code: "en", Name: "English"},
	{Code: "hi", Name: "Hindi"},
	{Code: "bn", Name: "Bengali"},
	{Code: "ta", Name: "Tamil"},
	{Code: "te", Name: "Telugu"},
	{Code: "mr", Name: "Marathi"},
	{Code: "gu", Name: "Gujarati"},
	{Code: "kn", Name: "Kannada"},
	{Code: "ml", Name: "Malayalam"},
	{Code: "pa", Name: "Punjabi"},
}

// Languages returns the supported target languages, English first.
func Languages() []types.Language {
	return append([]types.Language(nil), languages...)
}

func languageName(code string) (string, bool) {
	for _, l := range languages {
		if l.Code == code {
			return l.Name, true
		}
	}
	return "", false
}

func IsSupported(code string) bool {
	_, ok := languageName(code)
	return ok
}
