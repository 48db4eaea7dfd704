package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/application/metrics"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/pms/backend/internal/domain/settings"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/infrastructure/ai"
	"github.com/pms/backend/internal/infrastructure/cache"
	"github.com/pms/backend/internal/infrastructure/config"
)

const promptWindowDays = 30

// ProviderFactory builds an AI provider client for a provider name
type ProviderFactory func(name ai.ProviderName) (ai.Provider, error)

// DefaultProviderFactory wires the real provider clients from config
func DefaultProviderFactory(cfg config.AIConfig) ProviderFactory {
	return func(name ai.ProviderName) (ai.Provider, error) {
		switch name {
		case ai.ProviderOpenAI:
			if cfg.OpenAIKey == "" {
				return nil, shared.NewDomainError("MISSING_API_KEY", "OpenAI API key is not configured")
			}
			return ai.NewOpenAIProvider(cfg.OpenAIKey, cfg.Timeout), nil
		case ai.ProviderAnthropic:
			if cfg.AnthropicKey == "" {
				return nil, shared.NewDomainError("MISSING_API_KEY", "Anthropic API key is not configured")
			}
			return ai.NewAnthropicProvider(cfg.AnthropicKey, cfg.Timeout), nil
		case ai.ProviderGemini:
			if cfg.GeminiKey == "" {
				return nil, shared.NewDomainError("MISSING_API_KEY", "Gemini API key is not configured")
			}
			return ai.NewGeminiProvider(cfg.GeminiKey, cfg.Timeout), nil
		default:
			return nil, shared.NewDomainError("INVALID_PROVIDER", "AI provider is not supported")
		}
	}
}

// InsightService generates portfolio advice through the configured AI
// provider, caching results per page and scope.
type InsightService struct {
	settingsRepo    settings.Repository
	ownerRepo       portfolio.OwnerRepository
	propertyRepo    portfolio.PropertyRepository
	metricsService  *metrics.MetricsService
	insightCache    cache.InsightCache
	providerFactory ProviderFactory
}

// NewInsightService creates a new insight service
func NewInsightService(
	settingsRepo settings.Repository,
	ownerRepo portfolio.OwnerRepository,
	propertyRepo portfolio.PropertyRepository,
	metricsService *metrics.MetricsService,
	insightCache cache.InsightCache,
	providerFactory ProviderFactory,
) *InsightService {
	return &InsightService{
		settingsRepo:    settingsRepo,
		ownerRepo:       ownerRepo,
		propertyRepo:    propertyRepo,
		metricsService:  metricsService,
		insightCache:    insightCache,
		providerFactory: providerFactory,
	}
}

// Generate returns the insight for a page, from cache unless it
// expired or the caller forces a refresh.
func (s *InsightService) Generate(ctx context.Context, req GenerateInsightRequest) (*InsightResponse, error) {
	ownerID, propertyID, err := parseScope(req)
	if err != nil {
		return nil, err
	}

	providerName, model, err := s.resolveProviderModel(ctx)
	if err != nil {
		return nil, err
	}

	key := cache.InsightKey(req.Page, ownerID, propertyID)
	if !req.Refresh {
		if payload, ok := s.insightCache.Get(ctx, key); ok {
			if insight, err := ai.ParseInsight(payload); err == nil {
				return &InsightResponse{
					Page:            req.Page,
					Summary:         insight.Summary,
					Recommendations: insight.Recommendations,
					Provider:        providerName.String(),
					Model:           model,
					Cached:          true,
					GeneratedAt:     time.Now().UTC(),
				}, nil
			}
			// a corrupt cache entry is dropped and regenerated
			s.insightCache.Invalidate(ctx, key)
		}
	}

	provider, err := s.providerFactory(providerName)
	if err != nil {
		return nil, err
	}

	prompt, err := s.buildPrompt(ctx, req.Page, ownerID, propertyID)
	if err != nil {
		return nil, err
	}

	insight, err := provider.GenerateInsight(ctx, model, prompt)
	if err != nil {
		return nil, err
	}

	if payload, err := insight.MarshalPayload(); err == nil {
		s.insightCache.Set(ctx, key, payload)
	}

	return &InsightResponse{
		Page:            req.Page,
		Summary:         insight.Summary,
		Recommendations: insight.Recommendations,
		Provider:        providerName.String(),
		Model:           model,
		Cached:          false,
		GeneratedAt:     time.Now().UTC(),
	}, nil
}

func (s *InsightService) resolveProviderModel(ctx context.Context) (ai.ProviderName, string, error) {
	provider := ai.ProviderOpenAI
	if row, err := s.settingsRepo.FindByKey(ctx, settings.KeyAIProvider); err == nil && row.Value != "" {
		provider = ai.ProviderName(row.Value)
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return provider, "", err
	}
	if !provider.IsValid() {
		return provider, "", shared.NewDomainError("INVALID_PROVIDER", "Configured AI provider is not supported")
	}

	model := ai.DefaultModel(provider)
	if row, err := s.settingsRepo.FindByKey(ctx, settings.KeyAIModel); err == nil && row.Value != "" {
		if !ai.IsModelAllowed(provider, row.Value) {
			return provider, "", shared.NewDomainError("INVALID_MODEL", "Configured model is not allowed for the provider")
		}
		model = row.Value
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return provider, "", err
	}

	return provider, model, nil
}

// buildPrompt summarizes recent portfolio numbers so the model reasons
// over real data instead of hallucinating them.
func (s *InsightService) buildPrompt(ctx context.Context, page string, ownerID, propertyID *uuid.UUID) (string, error) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -promptWindowDays)
	overview, err := s.metricsService.Overview(ctx, metrics.MetricsQuery{
		From: from.Format("2006-01-02"),
		To:   to.Format("2006-01-02"),
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You advise a short-let property management company in West Africa.\n")
	fmt.Fprintf(&b, "Figures for the last %d days (in %s):\n", promptWindowDays, overview.Currency)
	fmt.Fprintf(&b, "- revenue %s, channel fees %s, expenses %s, net %s\n",
		overview.Revenue, overview.ChannelFees, overview.Expenses, overview.Net)
	fmt.Fprintf(&b, "- %d bookings over %d nights, occupancy %.1f%%, %d active properties, %d open issues\n",
		overview.Bookings, overview.Nights, overview.OccupancyRate*100, overview.ActiveProperties, overview.OpenIssues)

	switch page {
	case "owner":
		if ownerID != nil {
			owner, err := s.ownerRepo.FindByID(ctx, *ownerID)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "Focus on owner %s (%s), paid out in %s.\n", owner.Name, owner.Code, owner.PreferredCurrency)
		}
		b.WriteString("Advise on owner retention and statement clarity.")
	case "property":
		if propertyID != nil {
			property, err := s.propertyRepo.FindByID(ctx, *propertyID)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "Focus on property %s (%s).\n", property.Name, property.Code)
		}
		b.WriteString("Advise on pricing, occupancy and maintenance for this property.")
	default:
		b.WriteString("Advise on the portfolio as a whole.")
	}

	return b.String(), nil
}

func parseScope(req GenerateInsightRequest) (ownerID, propertyID *uuid.UUID, err error) {
	if req.OwnerID != "" {
		id, err := uuid.Parse(req.OwnerID)
		if err != nil {
			return nil, nil, shared.NewDomainError("INVALID_OWNER", "Owner id is not a valid UUID")
		}
		ownerID = &id
	}
	if req.PropertyID != "" {
		id, err := uuid.Parse(req.PropertyID)
		if err != nil {
			return nil, nil, shared.NewDomainError("INVALID_PROPERTY", "Property id is not a valid UUID")
		}
		propertyID = &id
	}
	return ownerID, propertyID, nil
}
