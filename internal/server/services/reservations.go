package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/tenantgate/tenantgate/internal/common"
	"github.com/tenantgate/tenantgate/internal/dbx"
	"github.com/tenantgate/tenantgate/internal/logging"
	"github.com/tenantgate/tenantgate/internal/server/config"
	"github.com/tenantgate/tenantgate/internal/server/models"
	"github.com/tenantgate/tenantgate/internal/server/repositories/repomanager"
	"github.com/tenantgate/tenantgate/internal/server/secrets"
)

// SubmitRequest carries the public reservation submission fields.
type SubmitRequest struct {
	TenantName   string
	TenantReason string
	ContactName  string
	ContactEmail string
	ContactPhone string
	Provisioning models.ProvisioningConfig
}

// SubmitResult is the outcome of a submission. Password is set only when
// the platform auto-approves, in which case it is the one-time check-in
// password.
type SubmitResult struct {
	Reservation *models.Reservation
	Password    string
}

// CheckInResult is handed to the new tenant exactly once.
type CheckInResult struct {
	WalletID  string
	WalletKey string
	Token     string
}

// ReservationService drives the reservation state machine:
//
//	requested → approved → checked_in
//	requested → denied
//
// Every transition runs in one transaction holding an exclusive lock on the
// reservation row, so concurrent approve/deny/check-in calls serialize and
// the loser observes the post-transition state.
type ReservationService struct {
	db          *sql.DB
	repos       repomanager.RepositoryManager
	provisioner *ProvisioningService
	expiry      time.Duration
	autoApprove bool
	autoIssuer  bool
	logger      logging.Logger
}

// NewReservationService constructs a ReservationService from server config.
func NewReservationService(db *sql.DB, repos repomanager.RepositoryManager, provisioner *ProvisioningService, cfg *config.Config, logger logging.Logger) *ReservationService {
	return &ReservationService{
		db:          db,
		repos:       repos,
		provisioner: provisioner,
		expiry:      cfg.ReservationExpiry,
		autoApprove: cfg.AutoApprove,
		autoIssuer:  cfg.AutoIssuer,
		logger:      logger,
	}
}

// Submit records a new reservation in the requested state. With
// auto-approve configured the reservation is approved immediately and the
// one-time password is included in the result.
func (s *ReservationService) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	res := &models.Reservation{
		ID:           uuid.NewString(),
		State:        models.ReservationRequested,
		TenantName:   req.TenantName,
		TenantReason: req.TenantReason,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Provisioning: req.Provisioning,
	}

	created, err := s.repos.Reservations(s.db).Create(ctx, res)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "reservation submitted", "reservation_id", created.ID, "tenant_name", created.TenantName)

	if !s.autoApprove {
		return &SubmitResult{Reservation: created}, nil
	}

	password, err := s.Approve(ctx, created.ID, "auto-approved")
	if err != nil {
		return nil, err
	}
	approved, err := s.repos.Reservations(s.db).GetByID(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	return &SubmitResult{Reservation: approved, Password: password}, nil
}

// Approve transitions a requested reservation to approved, generating its
// one-time check-in password and stamping the redemption deadline. The
// plaintext password is returned once and never stored.
func (s *ReservationService) Approve(ctx context.Context, id, notes string) (string, error) {
	var password string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Reservations(tx)
		res, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if res.State != models.ReservationRequested {
			return common.ErrStateConflict
		}

		plain, salt, hash, err := secrets.Generate("")
		if err != nil {
			return common.ErrorInternal
		}
		expiry := time.Now().Add(s.expiry)

		res.State = models.ReservationApproved
		res.TokenSalt = salt
		res.TokenHash = hash
		res.TokenExpiry = &expiry
		res.StateNotes = notes
		if err := repo.Update(ctx, res); err != nil {
			return err
		}
		password = plain
		return nil
	})
	if err != nil {
		return "", err
	}
	s.logger.Info(ctx, "reservation approved", "reservation_id", id)
	return password, nil
}

// Deny transitions a requested reservation to denied, a terminal state.
func (s *ReservationService) Deny(ctx context.Context, id, notes string) (*models.Reservation, error) {
	var denied *models.Reservation
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Reservations(tx)
		res, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if res.State != models.ReservationRequested {
			return common.ErrStateConflict
		}

		res.State = models.ReservationDenied
		res.StateNotes = notes
		if err := repo.Update(ctx, res); err != nil {
			return err
		}
		denied = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "reservation denied", "reservation_id", id)
	return denied, nil
}

// CheckIn redeems an approved reservation: the supplied password is checked
// against the stored salt/hash, a wallet and tenant are provisioned with a
// fresh random wallet key, and the reservation's secret fields are cleared
// as it moves to its terminal checked_in state.
//
// An expired reservation is rejected permanently, even with the correct
// password. Any password mismatch surfaces as the generic unauthorized
// error.
func (s *ReservationService) CheckIn(ctx context.Context, id, password string) (*CheckInResult, error) {
	var out *CheckInResult
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Reservations(tx)
		res, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if res.State != models.ReservationApproved {
			return common.ErrStateConflict
		}
		if res.TokenExpiry == nil || time.Now().After(*res.TokenExpiry) {
			return common.ErrReservationExpired
		}
		if !secrets.Verify(password, res.TokenSalt, res.TokenHash) {
			return common.ErrorUnauthorized
		}

		walletKey, err := common.MakeRandHexString(24)
		if err != nil {
			return common.ErrorInternal
		}

		extra := map[string]any{}
		if len(res.Provisioning.ConnectToEndorsers) > 0 {
			extra[SettingEndorsers] = res.Provisioning.ConnectToEndorsers
		}
		if len(res.Provisioning.CreatePublicDIDs) > 0 {
			extra[SettingPublicDIDs] = res.Provisioning.CreatePublicDIDs
		}
		if s.autoIssuer {
			extra[SettingIssuer] = true
		}

		prov, err := s.provisioner.CreateWallet(ctx, res.TenantName, walletKey, models.WalletKeyManaged, extra)
		if err != nil {
			return err
		}

		res.TenantID = &prov.Tenant.ID
		res.WalletID = &prov.Wallet.ID
		res.TokenSalt = nil
		res.TokenHash = nil
		res.TokenExpiry = nil
		res.State = models.ReservationCheckedIn
		if err := repo.Update(ctx, res); err != nil {
			return err
		}

		out = &CheckInResult{WalletID: prov.Wallet.ID, WalletKey: walletKey, Token: prov.Token}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "reservation checked in", "reservation_id", id, "wallet_id", out.WalletID)
	return out, nil
}

// Get returns a reservation by id.
func (s *ReservationService) Get(ctx context.Context, id string) (*models.Reservation, error) {
	return s.repos.Reservations(s.db).GetByID(ctx, id)
}

// List returns all reservations, newest first.
func (s *ReservationService) List(ctx context.Context) ([]*models.Reservation, error) {
	return s.repos.Reservations(s.db).List(ctx)
}
