package exercises

import "github.com/PabloGalante/psychologue-api/internal/domain"

var catalog = []domain.Exercise{
	{
		ID:              "breathing",
		Title:           "Respiration profonde",
		Description:     "Un exercice simple pour réduire le stress et l'anxiété",
		DurationMinutes: 5,
		Steps: []string{
			"Asseyez-vous confortablement, le dos droit",
			"Inspirez profondément par le nez pendant 4 secondes",
			"Retenez votre respiration pendant 4 secondes",
			"Expirez lentement par la bouche pendant 6 secondes",
			"Répétez ce cycle pendant 5 minutes",
		},
	},
	{
		ID:              "mindfulness",
		Title:           "Méditation de pleine conscience",
		Description:     "Concentrez-vous sur le moment présent",
		DurationMinutes: 10,
		Steps: []string{
			"Trouvez un endroit calme et asseyez-vous confortablement",
			"Fermez les yeux et portez attention à votre respiration",
			"Lorsque des pensées surgissent, reconnaissez-les puis laissez-les partir",
			"Concentrez-vous sur les sensations corporelles",
			"Continuez pendant 10 minutes",
		},
	},
	{
		ID:              "gratitude",
		Title:           "Journal de gratitude",
		Description:     "Cultivez une attitude reconnaissante",
		DurationMinutes: 7,
		Steps: []string{
			"Prenez un carnet et un stylo",
			"Listez 3 choses pour lesquelles vous êtes reconnaissant aujourd'hui",
			"Décrivez pourquoi chacune est importante pour vous",
			"Réfléchissez à la sensation de gratitude",
			"Pratiquez cet exercice quotidiennement",
		},
	},
}

// List returns a copy of the exercise catalog in display order.
func List() []domain.Exercise {
	out := make([]domain.Exercise, len(catalog))
	for i, ex := range catalog {
		ex.Steps = append([]string(nil), ex.Steps...)
		out[i] = ex
	}
	return out
}
