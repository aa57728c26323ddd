package tokens

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gptx-exchange/gptx-backend/internal/providers"
	"github.com/gptx-exchange/gptx-backend/internal/wrappers"
	"github.com/gptx-exchange/gptx-backend/pkg/aiproviders"
	"github.com/gptx-exchange/gptx-backend/pkg/blockchain"
	"github.com/gptx-exchange/gptx-backend/pkg/db/models"
	pkgerrors "github.com/gptx-exchange/gptx-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the wrap/unwrap lifecycle of GPTX tokens.
type Service interface {
	ListProviders(ctx context.Context) ([]ProviderDTO, error)
	ProviderHealth(ctx context.Context, name string) (*aiproviders.Health, error)
	ProviderBalance(ctx context.Context, name string) (*aiproviders.Balance, error)
	Wrap(ctx context.Context, input WrapInput) (*WrapResult, error)
	Balance(ctx context.Context, userAddress string) (*BalanceResult, error)
	Unwrap(ctx context.Context, input UnwrapInput) (*UnwrapResult, error)
	Transaction(ctx context.Context, txHash string) (*blockchain.Receipt, error)
	GasPrice(ctx context.Context) (*blockchain.GasEstimate, error)
}

type service struct {
	wrapperRepo  wrappers.Repository
	providerRepo providers.Repository
	tx           txRunner
	issuer       blockchain.TransactionIssuer
	gateway      aiproviders.ProviderGateway
}

// NewService builds a token service backed by the provided stack.
func NewService(
	wrapperRepo wrappers.Repository,
	providerRepo providers.Repository,
	tx txRunner,
	issuer blockchain.TransactionIssuer,
	gateway aiproviders.ProviderGateway,
) (Service, error) {
	if wrapperRepo == nil {
		return nil, fmt.Errorf("wrapper repository required")
	}
	if providerRepo == nil {
		return nil, fmt.Errorf("provider repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if issuer == nil {
		return nil, fmt.Errorf("transaction issuer required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("provider gateway required")
	}
	return &service{
		wrapperRepo:  wrapperRepo,
		providerRepo: providerRepo,
		tx:           tx,
		issuer:       issuer,
		gateway:      gateway,
	}, nil
}

// ProviderDTO is the public shape of a supported AI provider.
type ProviderDTO struct {
	Name           string          `json:"name"`
	DisplayName    string          `json:"display_name"`
	IsActive       bool            `json:"is_active"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
}

// WrapInput captures a request to wrap provider credits into GPTX tokens.
type WrapInput struct {
	UserAddress  string
	Provider     string
	CreditAmount decimal.Decimal
	Proof        string
}

// WrapResult reports the minted tokens and the issuing transaction.
type WrapResult struct {
	TransactionHash string          `json:"transaction_hash"`
	TokensIssued    decimal.Decimal `json:"tokens_issued"`
	Message         string          `json:"message"`
}

// WrappedCreditDTO is one active wrapper row in a balance breakdown.
type WrappedCreditDTO struct {
	Provider        string          `json:"provider"`
	OriginalCredits decimal.Decimal `json:"original_credits"`
	WrappedTokens   decimal.Decimal `json:"wrapped_tokens"`
	TransactionHash string          `json:"transaction_hash"`
	CreatedAt       time.Time       `json:"created_at"`
}

// BalanceResult is a user's total GPTX balance with its per-wrapper breakdown.
type BalanceResult struct {
	UserAddress    string             `json:"user_address"`
	TotalBalance   decimal.Decimal    `json:"total_balance"`
	WrappedCredits []WrappedCreditDTO `json:"wrapped_credits"`
}

// UnwrapInput captures a request to burn tokens back into provider credits.
type UnwrapInput struct {
	UserAddress string
	Provider    string
	TokenAmount decimal.Decimal
}

// UnwrapResult reports the restored credits and the issuing transaction.
type UnwrapResult struct {
	Message         string          `json:"message"`
	CreditsRestored decimal.Decimal `json:"credits_restored"`
	Provider        string          `json:"provider"`
	TransactionHash string          `json:"transaction_hash"`
}

func (s *service) ListProviders(ctx context.Context) ([]ProviderDTO, error) {
	active, err := s.providerRepo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list providers")
	}

	dtos := make([]ProviderDTO, 0, len(active))
	for _, p := range active {
		dtos = append(dtos, ProviderDTO{
			Name:           p.Name,
			DisplayName:    p.DisplayName,
			IsActive:       p.IsActive,
			ConversionRate: p.ConversionRate,
		})
	}
	return dtos, nil
}

func (s *service) ProviderHealth(ctx context.Context, name string) (*aiproviders.Health, error) {
	if _, err := s.activeProvider(ctx, name); err != nil {
		return nil, err
	}
	health, err := s.gateway.HealthCheck(ctx, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "provider health check")
	}
	return health, nil
}

func (s *service) ProviderBalance(ctx context.Context, name string) (*aiproviders.Balance, error) {
	if _, err := s.activeProvider(ctx, name); err != nil {
		return nil, err
	}
	balance, err := s.gateway.CreditBalance(ctx, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "provider credit balance")
	}
	return balance, nil
}

func (s *service) Wrap(ctx context.Context, input WrapInput) (*WrapResult, error) {
	if err := validateUserAddress(input.UserAddress); err != nil {
		return nil, err
	}
	if !input.CreditAmount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "credit amount must be greater than 0")
	}
	if len(input.Proof) < aiproviders.MinProofLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid proof of credit ownership required")
	}

	provider, err := s.activeProvider(ctx, input.Provider)
	if err != nil {
		return nil, err
	}

	verification, err := s.gateway.VerifyCreditOwnership(ctx, input.Provider, input.CreditAmount, input.Proof)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify credit ownership")
	}
	if !verification.Valid {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("credit verification failed: %s", verification.Error))
	}

	tokensToMint := input.CreditAmount.Mul(provider.ConversionRate)

	var receipt *blockchain.Receipt
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		receipt, err = s.issuer.WrapCredits(ctx, input.UserAddress, input.Provider, input.CreditAmount, input.Proof)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "issue wrap transaction")
		}

		wrapper := models.TokenWrapper{
			UserAddress:     input.UserAddress,
			Provider:        input.Provider,
			OriginalCredits: input.CreditAmount,
			WrappedTokens:   tokensToMint,
			TransactionHash: receipt.TransactionHash,
			IsActive:        true,
		}
		if err := s.wrapperRepo.WithTx(tx).Create(ctx, &wrapper); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist token wrapper")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &WrapResult{
		TransactionHash: receipt.TransactionHash,
		TokensIssued:    tokensToMint,
		Message: fmt.Sprintf("Successfully wrapped %s %s credits into %s GPTX tokens",
			input.CreditAmount, input.Provider, tokensToMint),
	}, nil
}

func (s *service) Balance(ctx context.Context, userAddress string) (*BalanceResult, error) {
	if err := validateUserAddress(userAddress); err != nil {
		return nil, err
	}

	rows, err := s.wrapperRepo.ListActive(ctx, userAddress, "")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wrappers")
	}

	credits := make([]WrappedCreditDTO, 0, len(rows))
	for _, row := range rows {
		credits = append(credits, WrappedCreditDTO{
			Provider:        row.Provider,
			OriginalCredits: row.OriginalCredits,
			WrappedTokens:   row.WrappedTokens,
			TransactionHash: row.TransactionHash,
			CreatedAt:       row.CreatedAt,
		})
	}

	return &BalanceResult{
		UserAddress:    userAddress,
		TotalBalance:   wrappers.Balance(rows),
		WrappedCredits: credits,
	}, nil
}

func (s *service) Unwrap(ctx context.Context, input UnwrapInput) (*UnwrapResult, error) {
	if err := validateUserAddress(input.UserAddress); err != nil {
		return nil, err
	}
	if !input.TokenAmount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token amount must be greater than 0")
	}

	provider, err := s.activeProvider(ctx, input.Provider)
	if err != nil {
		return nil, err
	}

	creditsToRestore := input.TokenAmount.Div(provider.ConversionRate)

	var receipt *blockchain.Receipt
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.wrapperRepo.WithTx(tx)

		rows, err := repo.ListActive(ctx, input.UserAddress, input.Provider)
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

		receipt, err = s.issuer.UnwrapCredits(ctx, input.UserAddress, input.Provider, input.TokenAmount)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "issue unwrap transaction")
		}

		restoration, err := s.gateway.RestoreCredits(ctx, input.Provider, creditsToRestore, input.UserAddress)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore credits")
		}
		if !restoration.Success {
			return pkgerrors.New(pkgerrors.CodeDependency,
				fmt.Sprintf("credit restoration failed: %s", restoration.Error))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &UnwrapResult{
		Message: fmt.Sprintf("Successfully unwrapped %s GPTX tokens back to %s %s credits",
			input.TokenAmount, creditsToRestore, input.Provider),
		CreditsRestored: creditsToRestore,
		Provider:        input.Provider,
		TransactionHash: receipt.TransactionHash,
	}, nil
}

func (s *service) Transaction(ctx context.Context, txHash string) (*blockchain.Receipt, error) {
	txHash = strings.TrimSpace(txHash)
	if !strings.HasPrefix(txHash, "0x") || len(txHash) < 10 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid transaction hash required")
	}
	receipt, err := s.issuer.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up transaction")
	}
	return receipt, nil
}

func (s *service) GasPrice(ctx context.Context) (*blockchain.GasEstimate, error) {
	estimate, err := s.issuer.EstimateGasPrice(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "estimate gas price")
	}
	return estimate, nil
}

func (s *service) activeProvider(ctx context.Context, name string) (*models.AIProvider, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider is required")
	}

	provider, err := s.providerRepo.FindActiveByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("provider '%s' not supported", name))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load provider")
	}
	return provider, nil
}

func validateUserAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user address is required")
	}
	return nil
}
