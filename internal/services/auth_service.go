package services

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	"storefront/internal/validate"
)

type AdminStore interface {
	Get(ctx context.Context) (domain.AdminConfig, error)
	UpdatePIN(ctx context.Context, pinHash string) error
	UpdateSecurity(ctx context.Context, question, answerHash string) error
}

type AuthService struct {
	Admin AdminStore
	// Cost is the bcrypt cost for new hashes; zero means bcrypt.DefaultCost.
	Cost int
}

func NewAuthService(admin AdminStore) *AuthService {
	return &AuthService{Admin: admin}
}

type LoginResult struct {
	OK                 bool `json:"ok"`
	NeedsSecuritySetup bool `json:"needsSecuritySetup"`
}

// Login checks pin against the stored hash. A wrong PIN is not an error: it
// returns OK=false and leaves the session unprivileged.
func (s *AuthService) Login(ctx context.Context, sess *Session, pin string) (LoginResult, error) {
	cfg, err := s.Admin.Get(ctx)
	if err != nil {
		return LoginResult{}, storeErr("load admin config", err)
	}
	if !matches(cfg.PINHash, pin) {
		sess.setPrivilege(PrivNone)
		return LoginResult{}, nil
	}
	if !cfg.HasSecurityQuestion() {
		sess.setPrivilege(PrivPendingSetup)
		return LoginResult{OK: true, NeedsSecuritySetup: true}, nil
	}
	sess.setPrivilege(PrivAdmin)
	return LoginResult{OK: true}, nil
}

func (s *AuthService) Logout(sess *Session) {
	if sess != nil {
		sess.setPrivilege(PrivNone)
	}
}

func (s *AuthService) IsAdmin(sess *Session) bool { return sess.IsAdmin() }

// SecurityQuestion returns the configured question, if any.
func (s *AuthService) SecurityQuestion(ctx context.Context) (domain.SecurityQuestion, bool, error) {
	cfg, err := s.Admin.Get(ctx)
	if err != nil {
		return domain.SecurityQuestion{}, false, storeErr("load admin config", err)
	}
	if !cfg.HasSecurityQuestion() {
		return domain.SecurityQuestion{}, false, nil
	}
	return domain.SecurityQuestion{Key: cfg.SecurityQuestion, Text: domain.QuestionText(cfg.SecurityQuestion)}, true, nil
}

// SetupSecurity stores the security question. It completes a pending login,
// or lets an admin replace the question after re-entering the PIN.
func (s *AuthService) SetupSecurity(ctx context.Context, sess *Session, questionKey, answer, currentPIN string) error {
	priv := sess.Privilege()
	if priv == PrivNone {
		return &AuthorizationError{Action: "set the security question"}
	}
	if domain.QuestionText(questionKey) == "" {
		return invalid("question", "choose one of the listed questions")
	}
	ans, ok := validate.Answer(answer)
	if !ok {
		return invalid("answer", "answer is required")
	}

	if priv == PrivAdmin {
		cfg, err := s.Admin.Get(ctx)
		if err != nil {
			return storeErr("load admin config", err)
		}
		if !matches(cfg.PINHash, currentPIN) {
			return &AuthorizationError{Action: "set the security question"}
		}
	}

	hash, err := s.hash(ans)
	if err != nil {
		return err
	}
	if err := s.Admin.UpdateSecurity(ctx, questionKey, hash); err != nil {
		return storeErr("save security question", err)
	}
	sess.setPrivilege(PrivAdmin)
	return nil
}

// ChangePIN replaces the PIN once the security answer is re-verified.
func (s *AuthService) ChangePIN(ctx context.Context, sess *Session, answer, newPIN string) error {
	if !sess.IsAdmin() {
		return &AuthorizationError{Action: "change the PIN"}
	}
	pin, ok := validate.PIN(newPIN)
	if !ok {
		return invalid("pin", "PIN must be 4 to 32 visible characters")
	}
	cfg, err := s.Admin.Get(ctx)
	if err != nil {
		return storeErr("load admin config", err)
	}
	if !cfg.HasSecurityQuestion() {
		return invalid("answer", "security question is not configured")
	}
	ans, _ := validate.Answer(answer)
	if !matches(cfg.SecurityAnswerHash, ans) {
		return &AuthorizationError{Action: "change the PIN"}
	}

	hash, err := s.hash(pin)
	if err != nil {
		return err
	}
	if err := s.Admin.UpdatePIN(ctx, hash); err != nil {
		return storeErr("save PIN", err)
	}
	return nil
}

func (s *AuthService) hash(secret string) (string, error) {
	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// matches compares the trimmed secret against hash.
func matches(hash, secret string) bool {
	secret = strings.TrimSpace(secret)
	if hash == "" || secret == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
