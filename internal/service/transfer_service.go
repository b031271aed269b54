package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/fsdevblog/remit-ledger/internal/commission"
	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/remit-ledger/pkg/uow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPendingTTL = 30 * 24 * time.Hour
	claimCodeDigits   = 8
)

type TransferService struct {
	uow          uow.UOW
	transferRepo TransferRepository
	resolver     *commission.Resolver
	observer     TransferObserver
	l            *logrus.Entry

	pendingTTL  time.Duration
	maxAttempts int
	now         func() time.Time
	claimCode   func() (string, error)
}

type TransferServiceArgs struct {
	Resolver    *commission.Resolver
	Observer    TransferObserver
	Logger      *logrus.Logger
	PendingTTL  time.Duration
	MaxAttempts int
}

func NewTransferService(u uow.UOW, args TransferServiceArgs) (*TransferService, error) {
	transferRepo, err := uow.GetRepositoryAs[TransferRepository](u, uow.RepositoryName(repoargs.TransferRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	resolver := args.Resolver
	if resolver == nil {
		resolver = commission.NewResolver(nil)
	}
	observer := args.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	l := args.Logger
	if l == nil {
		l = logrus.New()
	}
	pendingTTL := args.PendingTTL
	if pendingTTL <= 0 {
		pendingTTL = DefaultPendingTTL
	}
	return &TransferService{
		uow:          u,
		transferRepo: transferRepo,
		resolver:     resolver,
		observer:     observer,
		l:            l.WithField("component", "transfer_service"),
		pendingTTL:   pendingTTL,
		maxAttempts:  args.MaxAttempts,
		now:          time.Now,
		claimCode:    generateClaimCode,
	}, nil
}

type SendTransferArgs struct {
	SenderID    int64
	Kind        domain.TransferKind
	ReceiverID  *int64
	Currency    string
	Amount      decimal.Decimal
	Origin      *string
	Destination *string
}

// Send создает перевод.
//
// Внутренний перевод проводится за одну единицу работы и сразу получает статус completed: списание с отправителя
// суммы и комиссии, зачисление получателю, зачисление комиссии в пулы.
//
// Городской и международный переводы замораживают у отправителя сумму и комиссию и получают статус pending
// с кодом получения, который потом предъявляется в Claim. Если списание не прошло, перевод не создается.
//
// Конфликт конкурентных транзакций и коллизия кода получения приводят к повтору всей единицы работы.
func (s *TransferService) Send(ctx context.Context, args SendTransferArgs) (*domain.Transfer, error) {
	if err := s.validateSend(args); err != nil {
		return nil, fmt.Errorf("sending transfer: %w", err)
	}

	retryable := isConflict
	if args.Kind.RequiresClaim() {
		retryable = func(err error) bool {
			return isConflict(err) || errors.Is(err, domain.ErrDuplicateKey)
		}
	}

	var transfer *domain.Transfer
	err := retryTx(ctx, s.maxAttempts, retryable, func(attempt int) error {
		if attempt > 1 {
			s.observer.ConflictRetried("send")
		}
		return s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
			var txErr error
			if args.Kind.RequiresClaim() {
				transfer, txErr = s.sendPending(c, tx, args)
			} else {
				transfer, txErr = s.sendInternal(c, tx, args)
			}
			return txErr
		})
	})
	if err != nil {
		return nil, fmt.Errorf("sending %s transfer: %w", args.Kind, err)
	}

	s.observer.TransferFinished(transfer.Kind, transfer.Status)
	s.observer.CommissionResolved(transfer.Kind, transfer.CommissionSource)
	s.l.WithFields(logrus.Fields{
		"reference": transfer.Reference,
		"kind":      transfer.Kind,
		"status":    transfer.Status,
	}).Info("transfer created")
	return transfer, nil
}

func (s *TransferService) validateSend(args SendTransferArgs) error {
	if !args.Kind.IsValid() {
		return fmt.Errorf("unknown transfer kind `%s`", args.Kind)
	}
	if !domain.ValidAmount(args.Amount) {
		return domain.ErrInvalidAmount
	}
	if strings.TrimSpace(args.Currency) == "" {
		return errors.New("currency is required")
	}
	if args.Kind == domain.TransferKindInternal {
		if args.ReceiverID == nil {
			return fmt.Errorf("receiver is required: %w", domain.ErrRecordNotFound)
		}
		if *args.ReceiverID == args.SenderID {
			return domain.ErrSameAccount
		}
	}
	return nil
}

func (s *TransferService) resolveCommission(
	ctx context.Context,
	tx uow.TX,
	args SendTransferArgs,
) (*commission.Result, error) {
	tiers, err := uow.GetAs[TierRepository](tx, uow.RepositoryName(repoargs.TierRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return s.resolver.Resolve(ctx, tiers, commission.Query{ //nolint:wrapcheck
		Kind:        args.Kind,
		Currency:    args.Currency,
		Origin:      args.Origin,
		Destination: args.Destination,
		Amount:      args.Amount,
	})
}

func (s *TransferService) sendInternal(
	ctx context.Context,
	tx uow.TX,
	args SendTransferArgs,
) (*domain.Transfer, error) {
	users, err := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if _, findErr := users.FindUserByID(ctx, *args.ReceiverID); findErr != nil {
		return nil, fmt.Errorf("finding receiver: %w", findErr)
	}

	res, err := s.resolveCommission(ctx, tx, args)
	if err != nil {
		return nil, err
	}

	transfers, err := uow.GetAs[TransferRepository](tx, uow.RepositoryName(repoargs.TransferRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	now := s.now()
	transfer, err := transfers.Create(ctx, repoargs.CreateTransfer{
		Reference:           uuid.New(),
		Kind:                args.Kind,
		SenderID:            args.SenderID,
		ReceiverID:          args.ReceiverID,
		Currency:            args.Currency,
		Amount:              args.Amount,
		SystemCommission:    res.System,
		RecipientCommission: res.Recipient,
		TotalDebit:          args.Amount.Add(res.Total),
		Status:              domain.TransferStatusCompleted,
		CommissionSource:    res.Source,
		TierID:              res.TierID,
		CompletedAt:         &now,
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, err = postUser(ctx, tx, userPosting{
		UserID:         transfer.SenderID,
		Currency:       transfer.Currency,
		Amount:         transfer.TotalDebit,
		Commission:     res.Total,
		Direction:      domain.DirectionDebit,
		EntryType:      domain.EntryTypeTransferSend,
		Reference:      transfer.Reference,
		TransferID:     &transfer.ID,
		CounterpartyID: transfer.ReceiverID,
		Status:         transfer.Status,
	}); err != nil {
		return nil, err
	}

	if _, err = postUser(ctx, tx, userPosting{
		UserID:         *transfer.ReceiverID,
		Currency:       transfer.Currency,
		Amount:         transfer.Amount,
		Direction:      domain.DirectionCredit,
		EntryType:      domain.EntryTypeTransferReceive,
		Reference:      transfer.Reference,
		TransferID:     &transfer.ID,
		CounterpartyID: &transfer.SenderID,
		Status:         transfer.Status,
	}); err != nil {
		return nil, err
	}

	if err = s.creditCommission(ctx, tx, transfer, *transfer.ReceiverID); err != nil {
		return nil, err
	}
	return transfer, nil
}

func (s *TransferService) sendPending(
	ctx context.Context,
	tx uow.TX,
	args SendTransferArgs,
) (*domain.Transfer, error) {
	res, err := s.resolveCommission(ctx, tx, args)
	if err != nil {
		return nil, err
	}
	code, err := s.claimCode()
	if err != nil {
		return nil, fmt.Errorf("generating claim code: %w", err)
	}

	transfers, err := uow.GetAs[TransferRepository](tx, uow.RepositoryName(repoargs.TransferRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	expiresAt := s.now().Add(s.pendingTTL)
	transfer, err := transfers.Create(ctx, repoargs.CreateTransfer{
		Reference:           uuid.New(),
		Kind:                args.Kind,
		SenderID:            args.SenderID,
		Currency:            args.Currency,
		Amount:              args.Amount,
		SystemCommission:    res.System,
		RecipientCommission: res.Recipient,
		TotalDebit:          args.Amount.Add(res.Total),
		Origin:              args.Origin,
		Destination:         args.Destination,
		ClaimCode:           &code,
		Status:              domain.TransferStatusPending,
		CommissionSource:    res.Source,
		TierID:              res.TierID,
		ExpiresAt:           &expiresAt,
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, err = postUser(ctx, tx, userPosting{
		UserID:     transfer.SenderID,
		Currency:   transfer.Currency,
		Amount:     transfer.TotalDebit,
		Commission: res.Total,
		Direction:  domain.DirectionDebit,
		EntryType:  domain.EntryTypeTransferSend,
		Reference:  transfer.Reference,
		TransferID: &transfer.ID,
		Status:     transfer.Status,
	}); err != nil {
		return nil, err
	}
	return transfer, nil
}

// creditCommission зачисляет системную часть комиссии в системный пул, а часть получателя в пул officeID.
func (s *TransferService) creditCommission(
	ctx context.Context,
	tx uow.TX,
	transfer *domain.Transfer,
	officeID int64,
) error {
	if err := postPool(ctx, tx, poolPosting{
		OwnerID:    domain.SystemPoolOwnerID,
		Currency:   transfer.Currency,
		Amount:     transfer.SystemCommission,
		Direction:  domain.DirectionCredit,
		Reference:  transfer.Reference,
		TransferID: &transfer.ID,
	}); err != nil {
		return err
	}
	return postPool(ctx, tx, poolPosting{
		OwnerID:    officeID,
		Currency:   transfer.Currency,
		Amount:     transfer.RecipientCommission,
		Direction:  domain.DirectionCredit,
		Reference:  transfer.Reference,
		TransferID: &transfer.ID,
	})
}

type ClaimTransferArgs struct {
	ClaimantID int64
	Kind       domain.TransferKind
	Code       string
}

// Claim выдает замороженный перевод по коду получения. Строка перевода блокируется до конца транзакции,
// поэтому повторное предъявление того же кода видит статус completed и получает domain.ErrInvalidClaimCode
// без каких-либо изменений балансов.
func (s *TransferService) Claim(ctx context.Context, args ClaimTransferArgs) (*domain.Transfer, error) {
	if !args.Kind.RequiresClaim() {
		return nil, fmt.Errorf("claiming transfer: %w", domain.ErrInvalidClaimCode)
	}

	var transfer *domain.Transfer
	err := retryTx(ctx, s.maxAttempts, isConflict, func(attempt int) error {
		if attempt > 1 {
			s.observer.ConflictRetried("claim")
		}
		return s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
			var txErr error
			transfer, txErr = s.claim(c, tx, args)
			return txErr
		})
	})
	if err != nil {
		return nil, fmt.Errorf("claiming transfer: %w", err)
	}

	s.observer.TransferFinished(transfer.Kind, transfer.Status)
	s.l.WithFields(logrus.Fields{
		"reference": transfer.Reference,
		"claimedBy": args.ClaimantID,
	}).Info("transfer claimed")
	return transfer, nil
}

func (s *TransferService) claim(ctx context.Context, tx uow.TX, args ClaimTransferArgs) (*domain.Transfer, error) {
	transfers, err := uow.GetAs[TransferRepository](tx, uow.RepositoryName(repoargs.TransferRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	locked, err := transfers.FindByClaimCodeForUpdate(ctx, args.Code)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrInvalidClaimCode
		}
		return nil, err //nolint:wrapcheck
	}

	now := s.now()
	if locked.Kind != args.Kind || locked.Status != domain.TransferStatusPending || s.isExpired(locked, now) {
		return nil, domain.ErrInvalidClaimCode
	}
	if locked.SenderID == args.ClaimantID {
		return nil, domain.ErrSameAccount
	}

	transfer, err := transfers.UpdateStatus(ctx, repoargs.UpdateTransferStatus{
		ID:          locked.ID,
		Status:      domain.TransferStatusCompleted,
		ClaimedBy:   &args.ClaimantID,
		CompletedAt: &now,
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, err = postUser(ctx, tx, userPosting{
		UserID:         args.ClaimantID,
		Currency:       transfer.Currency,
		Amount:         transfer.Amount,
		Direction:      domain.DirectionCredit,
		EntryType:      domain.EntryTypeTransferClaim,
		Reference:      transfer.Reference,
		TransferID:     &transfer.ID,
		CounterpartyID: &transfer.SenderID,
		Status:         transfer.Status,
	}); err != nil {
		return nil, err
	}

	if err = s.creditCommission(ctx, tx, transfer, args.ClaimantID); err != nil {
		return nil, err
	}
	return transfer, nil
}

func (s *TransferService) isExpired(transfer *domain.Transfer, now time.Time) bool {
	return transfer.ExpiresAt != nil && !now.Before(*transfer.ExpiresAt)
}

type CancelTransferArgs struct {
	Reference uuid.UUID
	ActorID   int64
	IsAdmin   bool
	Reason    string
}

// Cancel отменяет ожидающий перевод и возвращает отправителю всю замороженную сумму вместе с комиссией.
// Отменить может отправитель или администратор.
func (s *TransferService) Cancel(ctx context.Context, args CancelTransferArgs) (*domain.Transfer, error) {
	reason := args.Reason
	if reason == "" && !args.IsAdmin {
		reason = domain.ReleaseReasonCancelled
	}
	authorize := func(tr *domain.Transfer) error {
		if !args.IsAdmin && tr.SenderID != args.ActorID {
			return domain.ErrForbidden
		}
		return nil
	}
	transfer, err := s.release(ctx, args.Reference, domain.TransferStatusCancelled, reason, authorize)
	if err != nil {
		return nil, fmt.Errorf("cancelling transfer: %w", err)
	}
	return transfer, nil
}

// Fail переводит ожидающий перевод в failed с возвратом средств отправителю. Только для администратора.
func (s *TransferService) Fail(ctx context.Context, reference uuid.UUID, reason string) (*domain.Transfer, error) {
	transfer, err := s.release(ctx, reference, domain.TransferStatusFailed, reason, nil)
	if err != nil {
		return nil, fmt.Errorf("failing transfer: %w", err)
	}
	return transfer, nil
}

// Expire отменяет просроченный ожидающий перевод с причиной domain.ReleaseReasonExpired.
// Для еще не просроченного перевода возвращает domain.ErrInvalidTransition.
func (s *TransferService) Expire(ctx context.Context, reference uuid.UUID) (*domain.Transfer, error) {
	notExpired := func(tr *domain.Transfer) error {
		if !s.isExpired(tr, s.now()) {
			return &domain.TransitionError{From: tr.Status, To: domain.TransferStatusCancelled}
		}
		return nil
	}
	transfer, err := s.release(ctx, reference, domain.TransferStatusCancelled, domain.ReleaseReasonExpired, notExpired)
	if err != nil {
		return nil, fmt.Errorf("expiring transfer: %w", err)
	}
	return transfer, nil
}

// release переводит pending перевод в статус to и возвращает отправителю TotalDebit. Блокировка строки
// и проверка статуса в одной транзакции гарантируют, что возврат случится не больше одного раза.
func (s *TransferService) release(
	ctx context.Context,
	reference uuid.UUID,
	to domain.TransferStatusType,
	reason string,
	authorize func(*domain.Transfer) error,
) (*domain.Transfer, error) {
	var transfer *domain.Transfer
	err := retryTx(ctx, s.maxAttempts, isConflict, func(attempt int) error {
		if attempt > 1 {
			s.observer.ConflictRetried("release")
		}
		return s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
			transfers, err := uow.GetAs[TransferRepository](tx, uow.RepositoryName(repoargs.TransferRepoName))
			if err != nil {
				return err //nolint:wrapcheck
			}
			locked, err := transfers.FindByReferenceForUpdate(c, reference)
			if err != nil {
				return err //nolint:wrapcheck
			}
			if authorize != nil {
				if authErr := authorize(locked); authErr != nil {
					return authErr
				}
			}
			if trErr := locked.Transition(to); trErr != nil {
				return trErr //nolint:wrapcheck
			}

			now := s.now()
			update := repoargs.UpdateTransferStatus{
				ID:          locked.ID,
				Status:      to,
				CancelledAt: &now,
			}
			if reason != "" {
				update.FailureReason = &reason
			}
			transfer, err = transfers.UpdateStatus(c, update)
			if err != nil {
				return err //nolint:wrapcheck
			}

			_, err = postUser(c, tx, userPosting{
				UserID:     transfer.SenderID,
				Currency:   transfer.Currency,
				Amount:     transfer.TotalDebit,
				Commission: transfer.Commission(),
				Direction:  domain.DirectionCredit,
				EntryType:  domain.EntryTypeRefund,
				Reference:  transfer.Reference,
				TransferID: &transfer.ID,
				Status:     transfer.Status,
			})
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	s.observer.TransferFinished(transfer.Kind, transfer.Status)
	s.l.WithFields(logrus.Fields{
		"reference": transfer.Reference,
		"status":    transfer.Status,
		"reason":    reason,
	}).Info("transfer released")
	return transfer, nil
}

// Reverse сторнирует завершенный перевод: списывает зачисленное получателю и пулам и возвращает отправителю
// TotalDebit. Если у любой из сторон не хватает средств, сторно не выполняется целиком.
func (s *TransferService) Reverse(ctx context.Context, reference uuid.UUID, reason string) (*domain.Transfer, error) {
	var transfer *domain.Transfer
	err := retryTx(ctx, s.maxAttempts, isConflict, func(attempt int) error {
		if attempt > 1 {
			s.observer.ConflictRetried("reverse")
		}
		return s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
			var txErr error
			transfer, txErr = s.reverse(c, tx, reference, reason)
			return txErr
		})
	})
	if err != nil {
		return nil, fmt.Errorf("reversing transfer: %w", err)
	}

	s.observer.TransferFinished(transfer.Kind, transfer.Status)
	s.l.WithField("reference", transfer.Reference).Warn("transfer reversed")
	return transfer, nil
}

func (s *TransferService) reverse(
	ctx context.Context,
	tx uow.TX,
	reference uuid.UUID,
	reason string,
) (*domain.Transfer, error) {
	transfers, err := uow.GetAs[TransferRepository](tx, uow.RepositoryName(repoargs.TransferRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	locked, err := transfers.FindByReferenceForUpdate(ctx, reference)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if trErr := locked.Transition(domain.TransferStatusReversed); trErr != nil {
		return nil, trErr //nolint:wrapcheck
	}

	beneficiary := locked.ReceiverID
	if locked.Kind.RequiresClaim() {
		beneficiary = locked.ClaimedBy
	}
	if beneficiary == nil {
		return nil, fmt.Errorf("transfer %s has no beneficiary: %w", locked.Reference, domain.ErrInvalidTransition)
	}

	update := repoargs.UpdateTransferStatus{ID: locked.ID, Status: domain.TransferStatusReversed}
	if reason != "" {
		update.FailureReason = &reason
	}
	transfer, err := transfers.UpdateStatus(ctx, update)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, err = postUser(ctx, tx, userPosting{
		UserID:         *beneficiary,
		Currency:       transfer.Currency,
		Amount:         transfer.Amount,
		Direction:      domain.DirectionDebit,
		EntryType:      domain.EntryTypeReversal,
		Reference:      transfer.Reference,
		TransferID:     &transfer.ID,
		CounterpartyID: &transfer.SenderID,
		Status:         transfer.Status,
	}); err != nil {
		return nil, err
	}

	for _, leg := range []struct {
		owner  int64
		amount decimal.Decimal
	}{
		{owner: domain.SystemPoolOwnerID, amount: transfer.SystemCommission},
		{owner: *beneficiary, amount: transfer.RecipientCommission},
	} {
		if err = postPool(ctx, tx, poolPosting{
			OwnerID:    leg.owner,
			Currency:   transfer.Currency,
			Amount:     leg.amount,
			Direction:  domain.DirectionDebit,
			Reference:  transfer.Reference,
			TransferID: &transfer.ID,
		}); err != nil {
			return nil, err
		}
	}

	if _, err = postUser(ctx, tx, userPosting{
		UserID:         transfer.SenderID,
		Currency:       transfer.Currency,
		Amount:         transfer.TotalDebit,
		Commission:     transfer.Commission(),
		Direction:      domain.DirectionCredit,
		EntryType:      domain.EntryTypeReversal,
		Reference:      transfer.Reference,
		TransferID:     &transfer.ID,
		CounterpartyID: beneficiary,
		Status:         transfer.Status,
	}); err != nil {
		return nil, err
	}
	return transfer, nil
}

// Get возвращает перевод, если actorID его участник или isAdmin.
func (s *TransferService) Get(
	ctx context.Context,
	reference uuid.UUID,
	actorID int64,
	isAdmin bool,
) (*domain.Transfer, error) {
	transfer, err := s.transferRepo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if !isAdmin && !isParticipant(transfer, actorID) {
		return nil, domain.ErrForbidden
	}
	return transfer, nil
}

func isParticipant(transfer *domain.Transfer, userID int64) bool {
	if transfer.SenderID == userID {
		return true
	}
	if transfer.ReceiverID != nil && *transfer.ReceiverID == userID {
		return true
	}
	return transfer.ClaimedBy != nil && *transfer.ClaimedBy == userID
}

// GetByUserID возвращает последние limit переводов пользователя.
func (s *TransferService) GetByUserID(ctx context.Context, userID int64, limit uint) ([]domain.Transfer, error) {
	transfers, err := s.transferRepo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return transfers, nil
}

// ExpiredPending возвращает до limit ожидающих переводов с истекшим сроком получения.
func (s *TransferService) ExpiredPending(ctx context.Context, limit uint) ([]domain.Transfer, error) {
	transfers, err := s.transferRepo.GetExpiredPending(ctx, s.now(), limit)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return transfers, nil
}

// generateClaimCode восьмизначный числовой код из crypto/rand.
func generateClaimCode() (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(claimCodeDigits), nil) //nolint:mnd
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err //nolint:wrapcheck
	}
	return fmt.Sprintf("%0*d", claimCodeDigits, n), nil
}

type nopObserver struct{}

func (nopObserver) TransferFinished(domain.TransferKind, domain.TransferStatusType)     {}
func (nopObserver) CommissionResolved(domain.TransferKind, domain.CommissionSourceType) {}
func (nopObserver) ConflictRetried(string)                                              {}
