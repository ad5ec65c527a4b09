package entities

type Tag struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	Categoria string `json:"categoria"`
}

type TagInput struct {
	Nombre    string `json:"nombre"`
	Categoria string `json:"categoria"`
}

type TagPatch struct {
	Nombre    *string `json:"nombre,omitempty"`
	Categoria *string `json:"categoria,omitempty"`
}

func (p TagPatch) IsEmpty() bool {
	return p.Nombre == nil && p.Categoria == nil
}
