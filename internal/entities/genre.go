package entities

// Genre is a genre node. GeneroPadre links to the parent genre, if any.
type Genre struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Descripcion string  `json:"descripcion"`
	GeneroPadre *string `json:"genero_padre,omitempty"`
}

// ParentID returns the parent genre ID or "" for root genres.
func (g Genre) ParentID() string {
	if g.GeneroPadre == nil {
		return ""
	}
	return *g.GeneroPadre
}

type GenreInput struct {
	Nombre      string  `json:"nombre"`
	Descripcion string  `json:"descripcion"`
	GeneroPadre *string `json:"genero_padre,omitempty"`
}

// GenrePatch is a partial update. A non-nil empty GeneroPadre detaches the
// genre from its parent.
type GenrePatch struct {
	Nombre      *string `json:"nombre,omitempty"`
	Descripcion *string `json:"descripcion,omitempty"`
	GeneroPadre *string `json:"genero_padre,omitempty"`
}

func (p GenrePatch) IsEmpty() bool {
	return p.Nombre == nil && p.Descripcion == nil && p.GeneroPadre == nil
}
