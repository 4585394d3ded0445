package domain

// Template is a built-in catalog entry used for quick subject creation.
type Template struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var templateCatalog = map[SubjectType][]Template{
	SubjectTypeInfo: {
		{Name: "Algorithmique", Icon: "🔢", Color: "#7c3aed"},
		{Name: "Programmation", Icon: "💻", Color: "#059669"},
		{Name: "Bases de données", Icon: "🗄️", Color: "#2563eb"},
		{Name: "Réseaux", Icon: "🌐", Color: "#0891b2"},
		{Name: "Systèmes d'exploitation", Icon: "🖥️", Color: "#475569"},
	},
	SubjectTypeMaths: {
		{Name: "Analyse", Icon: "📈", Color: "#dc2626"},
		{Name: "Algèbre linéaire", Icon: "🧮", Color: "#ea580c"},
		{Name: "Probabilités", Icon: "🎲", Color: "#ca8a04"},
		{Name: "Statistiques", Icon: "📊", Color: "#16a34a"},
		{Name: "Géométrie", Icon: "📐", Color: "#9333ea"},
	},
	SubjectTypePhysique: {
		{Name: "Mécanique", Icon: "⚙️", Color: "#2563eb"},
		{Name: "Électromagnétisme", Icon: "🧲", Color: "#dc2626"},
		{Name: "Thermodynamique", Icon: "🌡️", Color: "#ea580c"},
		{Name: "Optique", Icon: "🔭", Color: "#0891b2"},
		{Name: "Physique quantique", Icon: "⚛️", Color: "#7c3aed"},
	},
	SubjectTypeChimie: {
		{Name: "Chimie organique", Icon: "🧪", Color: "#059669"},
		{Name: "Chimie minérale", Icon: "💎", Color: "#0891b2"},
		{Name: "Chimie analytique", Icon: "🔬", Color: "#ca8a04"},
		{Name: "Thermochimie", Icon: "🔥", Color: "#dc2626"},
		{Name: "Cinétique chimique", Icon: "⏱️", Color: "#9333ea"},
	},
}

// Templates returns the catalog entries for a category. Categories without
// templates (autre, or unknown values) return nil.
func Templates(category SubjectType) []Template {
	list := templateCatalog[category]
	if list == nil {
		return nil
	}
	out := make([]Template, len(list))
	copy(out, list)
	return out
}

// FindTemplate looks up a catalog entry by category and name.
// Returns ErrTemplateNotFound if there is no such entry.
func FindTemplate(category SubjectType, name string) (Template, error) {
	for _, t := range templateCatalog[category] {
		if t.Name == name {
			return t, nil
		}
	}
	return Template{}, ErrTemplateNotFound
}
