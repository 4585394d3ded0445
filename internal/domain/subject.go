package domain

// SubjectType is the category a subject belongs to.
type SubjectType string

// Possible subject categories
const (
	SubjectTypeInfo     SubjectType = "info"
	SubjectTypeMaths    SubjectType = "maths"
	SubjectTypePhysique SubjectType = "physique"
	SubjectTypeChimie   SubjectType = "chimie"
	SubjectTypeAutre    SubjectType = "autre"
)

// IsValid reports whether t is one of the known categories.
func (t SubjectType) IsValid() bool {
	switch t {
	case SubjectTypeInfo, SubjectTypeMaths, SubjectTypePhysique, SubjectTypeChimie, SubjectTypeAutre:
		return true
	default:
		return false
	}
}

// Difficulty is the perceived difficulty of a chapter.
type Difficulty string

// Possible chapter difficulties
const (
	DifficultyFacile    Difficulty = "facile"
	DifficultyMoyen     Difficulty = "moyen"
	DifficultyDifficile Difficulty = "difficile"
)

// IsValid reports whether d is one of the known difficulties.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyFacile, DifficultyMoyen, DifficultyDifficile:
		return true
	default:
		return false
	}
}

// Chapter is a named sub-unit of a Subject. Its completion flag is
// independent of any revision slot.
type Chapter struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Completed  bool       `json:"completed"`
	Difficulty Difficulty `json:"difficulty"`
}

// Subject is a top-level study topic.
//
// CompletedHours is maintained incrementally by slot completion toggles and
// never goes below zero. TotalHours is stored display metadata.
type Subject struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Color          string      `json:"color"`
	Icon           string      `json:"icon"`
	Type           SubjectType `json:"type"`
	Chapters       []Chapter   `json:"chapters"`
	TotalHours     float64     `json:"totalHours"`
	CompletedHours float64     `json:"completedHours"`
}

// Chapter returns the chapter with the given ID.
func (s Subject) Chapter(id string) (Chapter, bool) {
	for _, c := range s.Chapters {
		if c.ID == id {
			return c, true
		}
	}
	return Chapter{}, false
}

// clone returns a copy of s that does not share its chapter list.
func (s Subject) clone() Subject {
	chapters := make([]Chapter, len(s.Chapters))
	copy(chapters, s.Chapters)
	s.Chapters = chapters
	return s
}

// Round-robin palettes for subjects created from a custom name.
var (
	subjectColors = []string{"#7c3aed", "#059669", "#dc2626", "#ea580c", "#ca8a04", "#2563eb"}
	subjectIcons  = []string{"📚", "📖", "📝", "🎯", "💡", "🧠"}
)

// paletteFor returns the colour and icon assigned to the n-th subject.
func paletteFor(n int) (color, icon string) {
	return subjectColors[n%len(subjectColors)], subjectIcons[n%len(subjectIcons)]
}
