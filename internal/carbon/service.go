package carbon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gptx-exchange/gptx-backend/internal/wrappers"
	"github.com/gptx-exchange/gptx-backend/pkg/blockchain"
	"github.com/gptx-exchange/gptx-backend/pkg/config"
	"github.com/gptx-exchange/gptx-backend/pkg/db"
	"github.com/gptx-exchange/gptx-backend/pkg/db/models"
	pkgerrors "github.com/gptx-exchange/gptx-backend/pkg/errors"
	"github.com/gptx-exchange/gptx-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	recentOffsetsLimit = 10

	// DefaultRetirementReason is stamped onto offsets when the caller gives none.
	DefaultRetirementReason = "Carbon offset retirement"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes token retirement and the resulting offset records.
type Service interface {
	Retire(ctx context.Context, input RetireInput) (*RetireResult, error)
	History(ctx context.Context, userAddress string, params pagination.Params) ([]OffsetDTO, error)
	Stats(ctx context.Context) (*StatsResult, error)
	Certificate(ctx context.Context, certificateID string) (*CertificateResult, error)
}

type service struct {
	offsetRepo  Repository
	wrapperRepo wrappers.Repository
	tx          txRunner
	issuer      blockchain.TransactionIssuer
	cfg         config.CarbonConfig
}

// NewService builds a carbon service backed by the provided stack.
func NewService(
	offsetRepo Repository,
	wrapperRepo wrappers.Repository,
	tx txRunner,
	issuer blockchain.TransactionIssuer,
	cfg config.CarbonConfig,
) (Service, error) {
	if offsetRepo == nil {
		return nil, fmt.Errorf("offset repository required")
	}
	if wrapperRepo == nil {
		return nil, fmt.Errorf("wrapper repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if issuer == nil {
		return nil, fmt.Errorf("transaction issuer required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("carbon config: %w", err)
	}
	return &service{
		offsetRepo:  offsetRepo,
		wrapperRepo: wrapperRepo,
		tx:          tx,
		issuer:      issuer,
		cfg:         cfg,
	}, nil
}

// RetireInput captures a request to burn tokens for carbon offsets.
type RetireInput struct {
	UserAddress string
	TokenAmount decimal.Decimal
	Reason      string
}

// RetireResult reports the recorded offset and its certificate.
type RetireResult struct {
	TransactionHash        string          `json:"transaction_hash"`
	TokensRetired          decimal.Decimal `json:"tokens_retired"`
	CarbonCreditsPurchased decimal.Decimal `json:"carbon_credits_purchased"`
	OffsetProvider         string          `json:"offset_provider"`
	CertificateID          string          `json:"certificate_id"`
	Message                string          `json:"message"`
}

// OffsetDTO is one offset record in a user's history.
type OffsetDTO struct {
	ID                     string          `json:"id"`
	UserAddress            string          `json:"user_address"`
	TokensRetired          decimal.Decimal `json:"tokens_retired"`
	CarbonCreditsPurchased decimal.Decimal `json:"carbon_credits_purchased"`
	OffsetProvider         string          `json:"offset_provider"`
	CertificateID          string          `json:"certificate_id"`
	CreatedAt              time.Time       `json:"created_at"`
}

// EnvironmentalImpact translates offset totals into tangible equivalents.
type EnvironmentalImpact struct {
	CO2OffsetTons          decimal.Decimal `json:"co2_offset_tons"`
	EquivalentTreesPlanted int64           `json:"equivalent_trees_planted"`
	EquivalentCarsRemoved  int64           `json:"equivalent_cars_removed"`
}

// RecentOffsetDTO is the trimmed offset shape used in carbon statistics.
type RecentOffsetDTO struct {
	TokensRetired decimal.Decimal `json:"tokens_retired"`
	CarbonCredits decimal.Decimal `json:"carbon_credits"`
	Provider      string          `json:"provider"`
	CreatedAt     time.Time       `json:"created_at"`
}

// StatsResult aggregates platform-wide retirement activity.
type StatsResult struct {
	TotalOffsets                int64               `json:"total_offsets"`
	TotalTokensRetired          decimal.Decimal     `json:"total_tokens_retired"`
	TotalCarbonCreditsPurchased decimal.Decimal     `json:"total_carbon_credits_purchased"`
	EnvironmentalImpact         EnvironmentalImpact `json:"environmental_impact"`
	RecentOffsets               []RecentOffsetDTO   `json:"recent_offsets"`
}

// CertificateResult is the public view of one offset certificate.
type CertificateResult struct {
	CertificateID          string          `json:"certificate_id"`
	UserAddress            string          `json:"user_address"`
	TokensRetired          decimal.Decimal `json:"tokens_retired"`
	CarbonCreditsPurchased decimal.Decimal `json:"carbon_credits_purchased"`
	OffsetProvider         string          `json:"offset_provider"`
	TransactionHash        string          `json:"transaction_hash"`
	CreatedAt              time.Time       `json:"created_at"`
	Metadata               json.RawMessage `json:"metadata"`
	VerificationURL        string          `json:"verification_url"`
	Status                 string          `json:"status"`
}

type offsetMetadata struct {
	Reason          string          `json:"reason"`
	OffsetRate      decimal.Decimal `json:"offset_rate"`
	ProviderDetails providerDetails `json:"provider_details"`
}

type providerDetails struct {
	Name         string `json:"name"`
	Verification string `json:"verification"`
	ProjectType  string `json:"project_type"`
}

// Retire burns tokens across all of the user's providers and records the
// resulting offset. Wrapper mutations and the offset row commit together.
func (s *service) Retire(ctx context.Context, input RetireInput) (*RetireResult, error) {
	if strings.TrimSpace(input.UserAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user address is required")
	}
	if !input.TokenAmount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token amount must be greater than 0")
	}

	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		reason = DefaultRetirementReason
	}

	offsetRate := s.cfg.OffsetRateDecimal()
	carbonCredits := input.TokenAmount.Mul(offsetRate)
	certificateID := newCertificateID()

	metadata, err := json.Marshal(offsetMetadata{
		Reason:     reason,
		OffsetRate: offsetRate,
		ProviderDetails: providerDetails{
			Name:         s.cfg.OffsetProvider,
			Verification: "Gold Standard",
			ProjectType:  "Renewable Energy",
		},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode offset metadata")
	}

	var receipt *blockchain.Receipt
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.wrapperRepo.WithTx(tx)

		rows, err := repo.ListActive(ctx, input.UserAddress, "")
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wrappers")
		}
		consumptions, err := wrappers.Allocate(rows, input.TokenAmount)
		if err != nil {
			return err
		}
		if err := repo.ApplyConsumptions(ctx, consumptions); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply consumptions")
		}

		receipt, err = s.issuer.RetireTokens(ctx, input.UserAddress, input.TokenAmount, reason)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "issue retire transaction")
		}

		offset := models.CarbonOffset{
			UserAddress:            input.UserAddress,
			TokensRetired:          input.TokenAmount,
			CarbonCreditsPurchased: carbonCredits,
			OffsetProvider:         s.cfg.OffsetProvider,
			OffsetCertificateID:    certificateID,
			TransactionHash:        receipt.TransactionHash,
			Metadata:               metadata,
		}
		if err := s.offsetRepo.WithTx(tx).Create(ctx, &offset); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "duplicate offset certificate")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist carbon offset")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RetireResult{
		TransactionHash:        receipt.TransactionHash,
		TokensRetired:          input.TokenAmount,
		CarbonCreditsPurchased: carbonCredits,
		OffsetProvider:         s.cfg.OffsetProvider,
		CertificateID:          certificateID,
		Message: fmt.Sprintf("Successfully retired %s GPTX tokens and purchased %s tons CO2 offset",
			input.TokenAmount, carbonCredits),
	}, nil
}

func (s *service) History(ctx context.Context, userAddress string, params pagination.Params) ([]OffsetDTO, error) {
	if strings.TrimSpace(userAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user address is required")
	}

	offsets, err := s.offsetRepo.ListByAddress(ctx, userAddress, pagination.NormalizeLimit(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list offsets")
	}

	dtos := make([]OffsetDTO, 0, len(offsets))
	for _, offset := range offsets {
		dtos = append(dtos, OffsetDTO{
			ID:                     offset.ID.String(),
			UserAddress:            offset.UserAddress,
			TokensRetired:          offset.TokensRetired,
			CarbonCreditsPurchased: offset.CarbonCreditsPurchased,
			OffsetProvider:         offset.OffsetProvider,
			CertificateID:          offset.OffsetCertificateID,
			CreatedAt:              offset.CreatedAt,
		})
	}
	return dtos, nil
}

func (s *service) Stats(ctx context.Context) (*StatsResult, error) {
	totals, err := s.offsetRepo.Totals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate offsets")
	}

	recent, err := s.offsetRepo.ListRecent(ctx, recentOffsetsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent offsets")
	}

	recentDTOs := make([]RecentOffsetDTO, 0, len(recent))
	for _, offset := range recent {
		recentDTOs = append(recentDTOs, RecentOffsetDTO{
			TokensRetired: offset.TokensRetired,
			CarbonCredits: offset.CarbonCreditsPurchased,
			Provider:      offset.OffsetProvider,
			CreatedAt:     offset.CreatedAt,
		})
	}

	return &StatsResult{
		TotalOffsets:                totals.OffsetCount,
		TotalTokensRetired:          totals.TotalTokensRetired,
		TotalCarbonCreditsPurchased: totals.TotalCarbonCredits,
		EnvironmentalImpact:         impactFromCredits(totals.TotalCarbonCredits),
		RecentOffsets:               recentDTOs,
	}, nil
}

func (s *service) Certificate(ctx context.Context, certificateID string) (*CertificateResult, error) {
	if strings.TrimSpace(certificateID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "certificate id is required")
	}

	offset, err := s.offsetRepo.FindByCertificateID(ctx, certificateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "certificate not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load certificate")
	}

	metadata := offset.Metadata
	if len(metadata) == 0 {
		metadata = json.RawMessage(`{}`)
	}

	return &CertificateResult{
		CertificateID:          offset.OffsetCertificateID,
		UserAddress:            offset.UserAddress,
		TokensRetired:          offset.TokensRetired,
		CarbonCreditsPurchased: offset.CarbonCreditsPurchased,
		OffsetProvider:         offset.OffsetProvider,
		TransactionHash:        offset.TransactionHash,
		CreatedAt:              offset.CreatedAt,
		Metadata:               metadata,
		VerificationURL:        fmt.Sprintf("%s/%s", strings.TrimRight(s.cfg.RegistryURL, "/"), offset.OffsetCertificateID),
		Status:                 "verified",
	}, nil
}

// impactFromCredits converts offset tonnage into the rough equivalents shown
// on the stats endpoint: 40 trees per ton, 4.6 tons per car per year.
func impactFromCredits(credits decimal.Decimal) EnvironmentalImpact {
	trees := credits.Mul(decimal.NewFromInt(40)).IntPart()
	cars := credits.Div(decimal.RequireFromString("4.6")).IntPart()
	return EnvironmentalImpact{
		CO2OffsetTons:          credits,
		EquivalentTreesPlanted: trees,
		EquivalentCarsRemoved:  cars,
	}
}

// newCertificateID returns ids shaped like GCS-20260115-1a2b3c4d. The random
// segment comes from a UUID so ids stay unique without coordination.
func newCertificateID() string {
	return fmt.Sprintf("GCS-%s-%s",
		time.Now().UTC().Format("20060102"),
		strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
