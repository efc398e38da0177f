package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/facturo/facturo/internal/clock"
	numberingdomain "github.com/facturo/facturo/internal/numbering/domain"
	"github.com/facturo/facturo/internal/numbering/format"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxManualNumberLength = 50

var (
	hasDigitRe     = regexp.MustCompile(`\d`)
	badCharacterRe = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)
)

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     numberingdomain.Repository
	Invoices numberingdomain.InvoiceNumberIndex
}

type Service struct {
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     numberingdomain.Repository
	invoices numberingdomain.InvoiceNumberIndex
}

func NewService(p ServiceParam) numberingdomain.Service {
	return &Service{
		log:      p.Log.Named("numbering.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		invoices: p.Invoices,
	}
}

// Allocate reads the tenant's counter, renders the invoice number, and
// advances the counter, all inside one transaction. The state row is
// lazily created in the same transaction on first use. Any transaction
// failure propagates unmodified; either everything commits or nothing does.
func (s *Service) Allocate(ctx context.Context, tenantID snowflake.ID, override *numberingdomain.FormatOverride) (*numberingdomain.AllocationResult, error) {
	if tenantID == 0 {
		return nil, numberingdomain.ErrInvalidTenant
	}

	var result *numberingdomain.AllocationResult
	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		state, err := s.lockOrCreateState(ctx, tx, tenantID)
		if err != nil {
			return err
		}

		cfg := s.buildConfig(state, override)
		number := format.Format(state.NextNumber, s.clock.Now(), cfg)

		if err := s.repo.SetNextNumber(ctx, tx, tenantID, state.NextNumber+1); err != nil {
			return err
		}

		result = &numberingdomain.AllocationResult{
			InvoiceNumber: number,
			NextNumber:    state.NextNumber + 1,
			Format:        format.Description(cfg),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("allocated invoice number",
		zap.Int64("tenant_id", int64(tenantID)),
		zap.String("invoice_number", result.InvoiceNumber),
	)
	return result, nil
}

// BulkAllocate reserves count consecutive numbers in one transaction, for
// backfilling historical invoices. The same per-tenant serialization as
// Allocate applies, so a concurrent single allocation can never interleave
// into the reserved range.
func (s *Service) BulkAllocate(ctx context.Context, tenantID snowflake.ID, count int) ([]string, error) {
	if tenantID == 0 {
		return nil, numberingdomain.ErrInvalidTenant
	}
	if count <= 0 {
		return nil, numberingdomain.ErrInvalidCount
	}

	var numbers []string
	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		state, err := s.lockOrCreateState(ctx, tx, tenantID)
		if err != nil {
			return err
		}

		cfg := s.buildConfig(state, nil)
		now := s.clock.Now()

		numbers = make([]string, 0, count)
		seq := state.NextNumber
		for i := 0; i < count; i++ {
			numbers = append(numbers, format.Format(seq, now, cfg))
			seq++
		}

		return s.repo.SetNextNumber(ctx, tx, tenantID, seq)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("bulk allocated invoice numbers",
		zap.Int64("tenant_id", int64(tenantID)),
		zap.Int("count", count),
	)
	return numbers, nil
}

// Preview renders what the next allocation would look like without touching
// the counter. Informational only; a concurrent allocation can outdate it.
func (s *Service) Preview(ctx context.Context, tenantID snowflake.ID, override *numberingdomain.FormatOverride) (*numberingdomain.PreviewResult, error) {
	if tenantID == 0 {
		return nil, numberingdomain.ErrInvalidTenant
	}

	state, err := s.repo.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	next := int64(1)
	prefix := ""
	if state != nil {
		next = state.NextNumber
		prefix = state.Prefix
	}

	cfg := s.buildConfig(&numberingdomain.NumberingState{Prefix: prefix}, override)
	return &numberingdomain.PreviewResult{
		Preview: format.Format(next, s.clock.Now(), cfg),
		Format:  format.Description(cfg),
	}, nil
}

// ValidateManualNumber checks a manually supplied invoice number against
// the format rules. Pure; returns every violated rule.
func (s *Service) ValidateManualNumber(candidate string) numberingdomain.ValidationResult {
	var violations []string

	if strings.TrimSpace(candidate) == "" {
		violations = append(violations, "invoice number cannot be empty")
	}
	if len(candidate) > maxManualNumberLength {
		violations = append(violations, "invoice number cannot be longer than 50 characters")
	}
	if !hasDigitRe.MatchString(candidate) {
		violations = append(violations, "invoice number should contain at least one digit")
	}
	if badCharacterRe.MatchString(candidate) {
		violations = append(violations, "invoice number should only contain letters, numbers, hyphens, and underscores")
	}

	return numberingdomain.ValidationResult{
		Valid:  len(violations) == 0,
		Errors: violations,
	}
}

// ExistsGlobally reports whether any invoice, across all tenants, already
// uses this exact number string.
func (s *Service) ExistsGlobally(ctx context.Context, candidate string) (bool, error) {
	return s.invoices.ExistsByNumber(ctx, candidate)
}

// RegisterCustom accepts a manual invoice number after validating its format
// and global uniqueness. It never auto-corrects or auto-suffixes.
func (s *Service) RegisterCustom(ctx context.Context, tenantID snowflake.ID, candidate string) (string, error) {
	if tenantID == 0 {
		return "", numberingdomain.ErrInvalidTenant
	}

	if validation := s.ValidateManualNumber(candidate); !validation.Valid {
		return "", &numberingdomain.ValidationError{Violations: validation.Errors}
	}

	exists, err := s.invoices.ExistsByNumber(ctx, candidate)
	if err != nil {
		return "", err
	}
	if exists {
		return "", numberingdomain.ErrDuplicateNumber
	}

	return candidate, nil
}

// ResetForNewYear sets the tenant's counter back to 1. Administrative and
// explicit; nothing triggers it automatically.
func (s *Service) ResetForNewYear(ctx context.Context, tenantID snowflake.ID) error {
	if tenantID == 0 {
		return numberingdomain.ErrInvalidTenant
	}

	if err := s.repo.Update(ctx, tenantID, map[string]any{"next_number": 1}); err != nil {
		return err
	}

	s.log.Info("reset invoice numbering for new year", zap.Int64("tenant_id", int64(tenantID)))
	return nil
}

// UpdateConfiguration edits the tenant's prefix and/or counter position.
func (s *Service) UpdateConfiguration(ctx context.Context, tenantID snowflake.ID, update numberingdomain.ConfigurationUpdate) error {
	if tenantID == 0 {
		return numberingdomain.ErrInvalidTenant
	}

	fields := map[string]any{}
	if update.Prefix != nil {
		fields["prefix"] = *update.Prefix
	}
	if update.StartingNumber != nil {
		fields["next_number"] = *update.StartingNumber
	}
	if len(fields) == 0 {
		return nil
	}

	return s.repo.Update(ctx, tenantID, fields)
}

// Stats summarizes the tenant's numbering position using default rendering.
func (s *Service) Stats(ctx context.Context, tenantID snowflake.ID) (*numberingdomain.Stats, error) {
	if tenantID == 0 {
		return nil, numberingdomain.ErrInvalidTenant
	}

	state, err := s.repo.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	current := int64(1)
	prefix := format.DefaultPrefix
	if state != nil {
		current = state.NextNumber
		prefix = state.Prefix
	}

	total, err := s.invoices.CountByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	cfg := format.DefaultConfig(prefix)
	return &numberingdomain.Stats{
		CurrentNumber: current,
		TotalInvoices: total,
		Prefix:        prefix,
		Format:        format.Description(cfg),
		NextPreview:   format.Format(current, s.clock.Now(), cfg),
	}, nil
}

// lockOrCreateState loads the tenant's state row under a row lock, creating
// it with defaults inside the same transaction when missing.
func (s *Service) lockOrCreateState(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID) (*numberingdomain.NumberingState, error) {
	state, err := s.repo.GetForUpdate(ctx, tx, tenantID)
	if err != nil {
		return nil, err
	}
	if state != nil {
		return state, nil
	}

	state = &numberingdomain.NumberingState{
		ID:                  s.genID.Generate(),
		TenantID:            tenantID,
		Prefix:              format.DefaultPrefix,
		NextNumber:          1,
		DefaultCurrency:     "USD",
		DefaultTaxRate:      decimal.Zero,
		DefaultPaymentTerms: 30,
	}
	if err := s.repo.Create(ctx, tx, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *Service) buildConfig(state *numberingdomain.NumberingState, override *numberingdomain.FormatOverride) format.Config {
	cfg := format.DefaultConfig(state.Prefix)
	if override == nil {
		return cfg
	}

	if override.Prefix != nil && *override.Prefix != "" {
		cfg.Prefix = *override.Prefix
	}
	if override.IncludeYear != nil {
		cfg.IncludeYear = *override.IncludeYear
	}
	if override.PaddingLength != nil && *override.PaddingLength > 0 {
		cfg.PaddingLength = *override.PaddingLength
	}
	if override.Separator != nil && *override.Separator != "" {
		cfg.Separator = *override.Separator
	}
	return cfg
}
