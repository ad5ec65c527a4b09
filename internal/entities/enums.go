package entities

type UserRole string

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

var UserRoles = []UserRole{UserRoleUser, UserRoleAdmin}

type Language string

const (
	LanguageSpanish    Language = "es"
	LanguageEnglish    Language = "en"
	LanguageFrench     Language = "fr"
	LanguageGerman     Language = "de"
	LanguageItalian    Language = "it"
	LanguagePortuguese Language = "pt"
)

var Languages = []Language{
	LanguageSpanish, LanguageEnglish, LanguageFrench,
	LanguageGerman, LanguageItalian, LanguagePortuguese,
}

type AgeRating string

const (
	AgeRatingAll AgeRating = "ALL"
	AgeRating7   AgeRating = "7+"
	AgeRating12  AgeRating = "12+"
	AgeRating16  AgeRating = "16+"
	AgeRating18  AgeRating = "18+"
)

var AgeRatings = []AgeRating{AgeRatingAll, AgeRating7, AgeRating12, AgeRating16, AgeRating18}

type ReadingDifficulty string

const (
	DifficultyBeginner     ReadingDifficulty = "BEGINNER"
	DifficultyIntermediate ReadingDifficulty = "INTERMEDIATE"
	DifficultyAdvanced     ReadingDifficulty = "ADVANCED"
)

var ReadingDifficulties = []ReadingDifficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
