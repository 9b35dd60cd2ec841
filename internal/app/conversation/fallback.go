package conversation

// WarmingUpMessage is returned while the model is loading on the provider side.
const WarmingUpMessage = "Le modèle est en cours de démarrage. Merci de réessayer dans quelques instants."

var fallbackReplies = []string{
	"Je vous entends. Pouvez-vous m'en dire un peu plus sur ce que vous ressentez en ce moment ?",
	"Merci de partager cela avec moi. Prenons le temps d'explorer ensemble ce que vous vivez.",
	"Ce que vous traversez semble important. Qu'est-ce qui vous pèse le plus aujourd'hui ?",
	"Je suis là pour vous écouter. Comment vous sentez-vous face à cette situation ?",
}

func (s *Service) fallbackReply() string {
	return fallbackReplies[s.pick(len(fallbackReplies))]
}
