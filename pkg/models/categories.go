package models

// CategoryMeta pairs a canonical category id with a display label.
type CategoryMeta struct {
	Id    string `json:"id"`
	Label string `json:"label"`
}

// CategoryIds are the canonical spending category ids. The parser is steered
// towards them and the meta endpoint serves them; free-form categories remain
// valid, the catalog is a vocabulary rather than a constraint.
var CategoryIds = []string{
	"food",
	"transport",
	"bills",
	"rent",
	"health",
	"fun",
	"shopping",
	"other",
}

var categoryLabels = map[string]map[string]string{
	"food":      {"en": "Food & groceries", "ru": "Еда и продукты", "uk": "Їжа та продукти"},
	"transport": {"en": "Transport", "ru": "Транспорт", "uk": "Транспорт"},
	"bills":     {"en": "Bills & utilities", "ru": "Коммунальные услуги", "uk": "Комунальні послуги"},
	"rent":      {"en": "Rent", "ru": "Аренда жилья", "uk": "Оренда житла"},
	"health":    {"en": "Health", "ru": "Здоровье", "uk": "Здоров'я"},
	"fun":       {"en": "Entertainment", "ru": "Развлечения", "uk": "Розваги"},
	"shopping":  {"en": "Shopping", "ru": "Покупки и шопинг", "uk": "Покупки та шопінг"},
	"other":     {"en": "Other", "ru": "Другое", "uk": "Інше"},
}

// CategoriesMeta returns the catalog with labels in the requested language.
// Unknown languages fall back to English.
func CategoriesMeta(lang string) []CategoryMeta {
	if lang != "en" && lang != "ru" && lang != "uk" {
		lang = "en"
	}
	metas := make([]CategoryMeta, len(CategoryIds))
	for i, id := range CategoryIds {
		metas[i] = CategoryMeta{Id: id, Label: categoryLabels[id][lang]}
	}
	return metas
}
