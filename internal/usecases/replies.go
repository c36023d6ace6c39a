package usecases

import (
	"fmt"

	"papelariabot/internal/entities"
)

// Fixed customer-facing copy. Errors are never surfaced here; the user
// only ever sees these strings or catalog/fallback content.
const (
	ReplyClosedHours = "⏰ Olá! Estamos fora do horário de atendimento. A Papelaria BH atende de segunda a sábado, das 8h às 18h. Por favor, entre em contato dentro desse horário. Obrigado!"

	ReplyReprompt = "Não encontrei essa opção. 🙈\n\nResponda com o *número* de uma das opções do menu, ou digite *menu* para ver a lista novamente."

	ReplyPaymentInstructions = "💳 *Formas de pagamento:*\n\n• Pix (chave: contato@papelariabh.com.br)\n• Cartão de débito/crédito na loja\n• Dinheiro\n\nO pagamento é feito na retirada do pedido."

	ReplyFallbackApology = "Desculpe, não consegui processar sua solicitação. Por favor, tente novamente."

	ReplyStorageFailed = "😕 Não conseguimos receber seu arquivo. Por favor, envie novamente."

	ReplyFeedbackPrompt = "Conseguimos te ajudar até aqui? Responda *sim* ou *não*."

	ReplyFeedbackThanks = "🙌 Que bom! Obrigado pela preferência. Qualquer coisa é só chamar."

	ReplyFeedbackSorry = "😔 Sentimos muito por isso. Um atendente vai revisar sua conversa. Obrigado pelo retorno!"
)

// ReceiptMessage confirms a stored upload, pointing at its intake path and
// including the payment instructions.
func ReceiptMessage(rec entities.UploadRecord) string {
	return fmt.Sprintf("📩 Recebemos seu arquivo! Ele foi registrado como *%s* e já está na fila de produção.\n\n%s", rec.StoredPath, ReplyPaymentInstructions)
}

// ReadyMessage is the deferred pickup notification for a chosen service.
func ReadyMessage(opt entities.ServiceOption) string {
	return fmt.Sprintf("📦 Olá! Seu pedido de *%s* está pronto para retirada na Papelaria BH. Até já!", opt.Label)
}

// UploadReadyMessage is the deferred pickup notification after file intake.
func UploadReadyMessage() string {
	return "📦 Olá! O material que você nos enviou está pronto para retirada na Papelaria BH. Até já!"
}
