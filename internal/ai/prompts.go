package ai

import (
	"fmt"
	"strings"

	"fiado-ledger/internal/core"
)

var toneGuide = map[Tone]string{
	TonePolite: "educado e amigável",
	ToneFirm:   "sério e profissional",
	ToneFunny:  "bem-humorado e descontraído",
}

func reminderPrompt(req ReminderRequest) string {
	return fmt.Sprintf(`Você ajuda o dono de uma mercearia de bairro a cobrar clientes do fiado.
Escreva uma mensagem curta de WhatsApp para o cliente abaixo.

Cliente: %s
Valor em aberto: R$ %s
Tom: %s

Regras:
1. Cite o valor exato.
2. Convide o cliente a passar na loja para acertar.
3. Entregue o texto final, sem campos para preencher.`,
		req.DebtorName, core.FormatBRL(req.TotalDebt), toneGuide[req.Tone])
}

func analysisPrompt(req AnalysisRequest) string {
	return fmt.Sprintf(`Analise o histórico deste cliente da caderneta de fiado.
Cliente: %s

Últimas compras no fiado:
%s

Últimos pagamentos:
%s

Resuma em no máximo três linhas, de forma direta e informal, como esse cliente costuma pagar
e diga se vale a pena continuar vendendo fiado para ele.`,
		req.DebtorName,
		historyLines(req.Debts, "Nenhuma compra recente"),
		historyLines(req.Payments, "Nenhum pagamento recente"))
}

func historyLines(entries []HistoryEntry, empty string) string {
	if len(entries) == 0 {
		return empty
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("- %s: R$ %s", e.Date.Format("02/01/2006"), core.FormatBRL(e.Amount))
	}
	return strings.Join(lines, "\n")
}
