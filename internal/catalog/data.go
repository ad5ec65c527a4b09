package catalog

import "github.com/mrlokans/booknet/internal/entities"

const defaultFeatured = "don-quijote"

var defaultBooks = []Book{
	{
		ID:            "don-quijote",
		Title:         "Don Quijote de la Mancha",
		Author:        "Miguel de Cervantes",
		Description:   "Un hidalgo enloquecido por los libros de caballerías sale a recorrer los caminos de Castilla junto a su fiel escudero.",
		CoverImage:    "/static/covers/don-quijote.jpg",
		Year:          1605,
		Genres:        []string{"Clásico", "Novela"},
		AgeRating:     entities.AgeRating12,
		TotalChapters: 52,
		Chapters: []Chapter{
			{Number: 1, Title: "Que trata de la condición y ejercicio del famoso hidalgo", Body: "<p>En un lugar de la Mancha, de cuyo nombre no quiero acordarme, no ha mucho tiempo que vivía un hidalgo de los de lanza en astillero, adarga antigua, rocín flaco y galgo corredor.</p>"},
			{Number: 2, Title: "Que trata de la primera salida", Body: "<p>Hechas, pues, estas prevenciones, no quiso aguardar más tiempo a poner en efeto su pensamiento.</p>"},
		},
	},
	{
		ID:            "lazarillo",
		Title:         "Lazarillo de Tormes",
		Author:        "Anónimo",
		Description:   "Las andanzas de un muchacho que sobrevive sirviendo a varios amos en la España del siglo XVI.",
		CoverImage:    "/static/covers/lazarillo.jpg",
		Year:          1554,
		Genres:        []string{"Clásico", "Picaresca"},
		AgeRating:     entities.AgeRating12,
		TotalChapters: 7,
		Chapters: []Chapter{
			{Number: 1, Title: "Cuenta Lázaro su vida y cúyo hijo fue", Body: "<p>Pues sepa Vuestra Merced ante todas cosas que a mí llaman Lázaro de Tormes.</p>"},
		},
	},
	{
		ID:            "la-celestina",
		Title:         "La Celestina",
		Author:        "Fernando de Rojas",
		Description:   "La tragicomedia de Calisto y Melibea y de la alcahueta que los une.",
		CoverImage:    "/static/covers/la-celestina.jpg",
		Year:          1499,
		Genres:        []string{"Clásico", "Teatro"},
		AgeRating:     entities.AgeRating16,
		TotalChapters: 21,
	},
	{
		ID:            "marianela",
		Title:         "Marianela",
		Author:        "Benito Pérez Galdós",
		Description:   "Una joven humilde guía a un muchacho ciego por los paisajes mineros de Socartes.",
		CoverImage:    "/static/covers/marianela.jpg",
		Year:          1878,
		Genres:        []string{"Novela", "Realismo"},
		AgeRating:     entities.AgeRatingAll,
		TotalChapters: 22,
	},
	{
		ID:            "platero",
		Title:         "Platero y yo",
		Author:        "Juan Ramón Jiménez",
		Description:   "Estampas líricas de Moguer contadas a un burrito de algodón.",
		CoverImage:    "/static/covers/platero.jpg",
		Year:          1914,
		Genres:        []string{"Poesía", "Infantil"},
		AgeRating:     entities.AgeRatingAll,
		TotalChapters: 138,
		Chapters: []Chapter{
			{Number: 1, Title: "Platero", Body: "<p>Platero es pequeño, peludo, suave; tan blando por fuera, que se diría todo de algodón, que no lleva huesos.</p>"},
		},
	},
	{
		ID:            "la-regenta",
		Title:         "La Regenta",
		Author:        "Leopoldo Alas «Clarín»",
		Description:   "Ana Ozores se ahoga en la vida provinciana de Vetusta entre un marido ausente y un confesor ambicioso.",
		CoverImage:    "/static/covers/la-regenta.jpg",
		Year:          1884,
		Genres:        []string{"Novela", "Realismo"},
		AgeRating:     entities.AgeRating16,
		TotalChapters: 30,
	},
	{
		ID:            "rimas",
		Title:         "Rimas y leyendas",
		Author:        "Gustavo Adolfo Bécquer",
		Description:   "Poemas breves y relatos fantásticos del romanticismo español.",
		CoverImage:    "/static/covers/rimas.jpg",
		Year:          1871,
		Genres:        []string{"Poesía", "Romanticismo"},
		AgeRating:     entities.AgeRating7,
		TotalChapters: 18,
	},
	{
		ID:            "niebla",
		Title:         "Niebla",
		Author:        "Miguel de Unamuno",
		Description:   "Augusto Pérez descubre que es un personaje y decide enfrentarse a su autor.",
		CoverImage:    "/static/covers/niebla.jpg",
		Year:          1914,
		Genres:        []string{"Novela", "Existencialismo"},
		AgeRating:     entities.AgeRating16,
		TotalChapters: 33,
	},
}

var defaultCarousels = []Carousel{
	{Key: "tendencias", Title: "Tendencias", BookIDs: []string{"don-quijote", "niebla", "platero", "la-regenta"}},
	{Key: "novedades", Title: "Novedades", BookIDs: []string{"niebla", "platero", "marianela"}},
	{Key: "clasicos", Title: "Clásicos", BookIDs: []string{"don-quijote", "lazarillo", "la-celestina"}},
	{Key: "poesia", Title: "Poesía", BookIDs: []string{"platero", "rimas"}},
}

var defaultAuthors = []Author{
	{ID: "cervantes", Nombre: "Miguel de Cervantes", Nacionalidad: "Española", Foto: "/static/authors/cervantes.jpg"},
	{ID: "galdos", Nombre: "Benito Pérez Galdós", Nacionalidad: "Española", Foto: "/static/authors/galdos.jpg"},
	{ID: "becquer", Nombre: "Gustavo Adolfo Bécquer", Nacionalidad: "Española", Foto: "/static/authors/becquer.jpg"},
	{ID: "unamuno", Nombre: "Miguel de Unamuno", Nacionalidad: "Española", Foto: "/static/authors/unamuno.jpg"},
}
