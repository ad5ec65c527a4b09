package entities

// Author is an author record as served by the backend.
type Author struct {
	ID              string  `json:"id"`
	Nombre          string  `json:"nombre"`
	AcercaDe        string  `json:"acerca_de"`
	FechaNacimiento string  `json:"fechaNacimiento"`
	FechaMuerte     *string `json:"fechaMuerte,omitempty"`
	Nacionalidad    string  `json:"nacionalidad"`
	Foto            string  `json:"foto"`
}

// AuthorInput is the payload for creating an author.
type AuthorInput struct {
	Nombre          string  `json:"nombre"`
	AcercaDe        string  `json:"acerca_de"`
	FechaNacimiento string  `json:"fechaNacimiento"`
	FechaMuerte     *string `json:"fechaMuerte,omitempty"`
	Nacionalidad    string  `json:"nacionalidad"`
	Foto            string  `json:"foto,omitempty"`
}

// AuthorPatch is a partial update. Nil fields are left untouched.
type AuthorPatch struct {
	Nombre          *string `json:"nombre,omitempty"`
	AcercaDe        *string `json:"acerca_de,omitempty"`
	FechaNacimiento *string `json:"fechaNacimiento,omitempty"`
	FechaMuerte     *string `json:"fechaMuerte,omitempty"`
	Nacionalidad    *string `json:"nacionalidad,omitempty"`
	Foto            *string `json:"foto,omitempty"`
}

func (p AuthorPatch) IsEmpty() bool {
	return p.Nombre == nil && p.AcercaDe == nil && p.FechaNacimiento == nil &&
		p.FechaMuerte == nil && p.Nacionalidad == nil && p.Foto == nil
}
