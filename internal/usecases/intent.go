package usecases

import (
	"strconv"
	"strings"

	"papelariabot/internal/entities"
)

var greetingWords = []string{
	"oi", "ola", "olá", "bom dia", "boa tarde", "boa noite",
	"menu", "serviços", "servicos", "materiais",
}

var (
	yesTokens = map[string]bool{"sim": true, "s": true, "yes": true, "y": true}
	noTokens  = map[string]bool{"não": true, "nao": true, "n": true, "no": true}
)

var paymentWords = []string{"pix", "pagamento", "pagar", "forma de pagamento"}

// IntentClassifier maps raw message text plus session state to an Intent.
// Classification is deterministic and never fails; anything unmatched is
// Unrecognized.
type IntentClassifier struct {
	catalogSize int
}

// NewIntentClassifier builds a classifier for a catalog of catalogSize
// services (valid selection codes are 1..catalogSize).
func NewIntentClassifier(catalogSize int) *IntentClassifier {
	return &IntentClassifier{catalogSize: catalogSize}
}

// Classify resolves msg to an intent. awaitingFeedback gates the yes/no
// tokens: outside a pending feedback prompt they mean nothing.
func (ic *IntentClassifier) Classify(msg entities.InboundMessage, awaitingFeedback bool) entities.Classification {
	text := strings.ToLower(strings.TrimSpace(msg.Text))

	if awaitingFeedback {
		if yesTokens[text] {
			return entities.Classification{Intent: entities.IntentFeedbackYes}
		}
		if noTokens[text] {
			return entities.Classification{Intent: entities.IntentFeedbackNo}
		}
	}

	for _, w := range greetingWords {
		if strings.Contains(text, w) {
			return entities.Classification{Intent: entities.IntentGreeting}
		}
	}

	// A selection must be a bare numeric token in range. Text that merely
	// contains digits ("123abc", "quero 2 copias") is not a selection.
	if code, err := strconv.Atoi(text); err == nil && code >= 1 && code <= ic.catalogSize {
		return entities.Classification{Intent: entities.IntentServiceSelect, ServiceCode: code}
	}

	if msg.HasMedia {
		return entities.Classification{Intent: entities.IntentFileUpload}
	}

	for _, w := range paymentWords {
		if strings.Contains(text, w) {
			return entities.Classification{Intent: entities.IntentPaymentQuery}
		}
	}

	return entities.Classification{Intent: entities.IntentUnrecognized}
}
