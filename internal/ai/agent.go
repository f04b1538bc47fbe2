package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"fiado-ledger/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
	"github.com/shopspring/decimal"
)

const DefaultModel = "gpt-4o-mini"

// Texts shown to the shop owner when generation fails or returns nothing.
const (
	ReminderFailedText = "Erro ao conectar com a IA para gerar mensagem."
	ReminderEmptyText  = "Não foi possível gerar a mensagem."
	AnalysisFailedText = "Erro ao realizar análise de IA."
	AnalysisEmptyText  = "Análise indisponível."
)

type Tone string

const (
	TonePolite Tone = "polite"
	ToneFirm   Tone = "firm"
	ToneFunny  Tone = "funny"
)

// ParseTone accepts polite, firm or funny; blank means polite.
func ParseTone(s string) (Tone, error) {
	switch t := Tone(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return TonePolite, nil
	case TonePolite, ToneFirm, ToneFunny:
		return t, nil
	}
	return "", core.ErrInvalidTone
}

type ReminderRequest struct {
	DebtorName string
	TotalDebt  decimal.Decimal
	Tone       Tone
}

// HistoryEntry is one past debt or payment fed to the analysis prompt.
type HistoryEntry struct {
	Date   time.Time
	Amount decimal.Decimal
}

type AnalysisRequest struct {
	DebtorName string
	Debts      []HistoryEntry // last five, oldest first
	Payments   []HistoryEntry // last five, oldest first
}

// Analysis is the behavioral summary of a debtor. ExtendCredit is nil when the
// model could not be consulted.
type Analysis struct {
	Text         string `json:"text"`
	ExtendCredit *bool  `json:"extendCredit,omitempty"`
}

// Assessment is the structured answer requested from the model.
type Assessment struct {
	Summary      string `json:"summary" jsonschema_description:"At most three short lines in Brazilian Portuguese describing how this customer pays"`
	ExtendCredit bool   `json:"extend_credit" jsonschema_description:"True if the shop should keep selling on credit to this customer"`
}

// Service drafts texts for the shop owner. Implementations never return
// errors: failures are reported as displayable text.
type Service interface {
	Reminder(ctx context.Context, req ReminderRequest) string
	Analyze(ctx context.Context, req AnalysisRequest) Analysis
}

type Agent struct {
	client     *openai.Client
	model      string
	configured bool
}

// NewAgent builds an agent for the Responses API. Requests are single-shot:
// SDK retries are disabled. Extra options (base URL, HTTP client) go last.
func NewAgent(apiKey, model string, opts ...option.RequestOption) *Agent {
	if model == "" {
		model = DefaultModel
	}
	base := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	client := openai.NewClient(append(base, opts...)...)
	return &Agent{client: &client, model: model, configured: apiKey != ""}
}

func (a *Agent) Reminder(ctx context.Context, req ReminderRequest) string {
	text, err := a.generate(ctx, responses.ResponseNewParams{
		Model: shared.ResponsesModel(a.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(reminderPrompt(req)),
		},
	})
	if err != nil {
		log.Printf("ai: reminder for %q failed: %v", req.DebtorName, err)
		return ReminderFailedText
	}
	if strings.TrimSpace(text) == "" {
		return ReminderEmptyText
	}
	return strings.TrimSpace(text)
}

func (a *Agent) Analyze(ctx context.Context, req AnalysisRequest) Analysis {
	schemaMap, err := assessmentSchema()
	if err != nil {
		log.Printf("ai: %v", err)
		return Analysis{Text: AnalysisFailedText}
	}

	text, err := a.generate(ctx, responses.ResponseNewParams{
		Model: shared.ResponsesModel(a.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(analysisPrompt(req)),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "debtor_assessment",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("Short assessment of a credit customer's payment behavior"),
				},
			},
		},
	})
	if err != nil {
		log.Printf("ai: analysis for %q failed: %v", req.DebtorName, err)
		return Analysis{Text: AnalysisFailedText}
	}
	if strings.TrimSpace(text) == "" {
		return Analysis{Text: AnalysisEmptyText}
	}

	var out Assessment
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		log.Printf("ai: analysis for %q returned invalid JSON: %v", req.DebtorName, err)
		return Analysis{Text: AnalysisFailedText}
	}
	if strings.TrimSpace(out.Summary) == "" {
		return Analysis{Text: AnalysisEmptyText}
	}
	extend := out.ExtendCredit
	return Analysis{Text: strings.TrimSpace(out.Summary), ExtendCredit: &extend}
}

func (a *Agent) generate(ctx context.Context, params responses.ResponseNewParams) (string, error) {
	if !a.configured {
		return "", fmt.Errorf("OPENAI_API_KEY is not set")
	}
	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai responses error: %w", err)
	}
	return resp.OutputText(), nil
}

func assessmentSchema() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schemaJSON, err := json.Marshal(reflector.Reflect(Assessment{}))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}
	return schemaMap, nil
}
