package services_test

import (
	"context"
	"testing"

	"storefront/internal/services"
)

func TestLoginWrongPIN(t *testing.T) {
	f := newFixture(t)
	s := f.sess.Get("s1")

	res, err := f.auth.Login(context.Background(), s, "nope")
	if err != nil {
		t.Fatal(err)
	}
	if res.OK || res.NeedsSecuritySetup {
		t.Fatalf("wrong PIN must not log in or open setup: %+v", res)
	}
	if s.IsAdmin() || s.Privilege() != services.PrivNone {
		t.Fatal("session should stay unprivileged")
	}
}

func TestFirstLoginRequiresSecuritySetup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.sess.Get("s1")

	res, err := f.auth.Login(ctx, s, "  admin123 ")
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK || !res.NeedsSecuritySetup {
		t.Fatalf("want pending setup, got %+v", res)
	}
	if s.IsAdmin() {
		t.Fatal("admin granted before security setup")
	}

	if err := f.auth.SetupSecurity(ctx, s, "pet", "x", ""); err == nil {
		t.Fatal("unknown question accepted")
	}
	if err := f.auth.SetupSecurity(ctx, s, "village", "  Hampi ", ""); err != nil {
		t.Fatal(err)
	}
	if !s.IsAdmin() {
		t.Fatal("setup should grant admin")
	}

	q, ok, err := f.auth.SecurityQuestion(ctx)
	if err != nil || !ok || q.Key != "village" {
		t.Fatalf("question = %+v %v %v", q, ok, err)
	}

	// the next login goes straight to admin
	s2 := f.sess.Get("s2")
	res, _ = f.auth.Login(ctx, s2, "admin123")
	if !res.OK || res.NeedsSecuritySetup || !s2.IsAdmin() {
		t.Fatalf("second login: %+v", res)
	}
}

func TestSetupSecurityNeedsLogin(t *testing.T) {
	f := newFixture(t)
	err := f.auth.SetupSecurity(context.Background(), f.sess.Get("anon"), "dog", "rex", "")
	wantErrType[*services.AuthorizationError](t, err)
}

func TestAdminReplacingQuestionNeedsPIN(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.admin(t, "a")

	err := f.auth.SetupSecurity(ctx, s, "surname", "rao", "wrong")
	wantErrType[*services.AuthorizationError](t, err)
	if err := f.auth.SetupSecurity(ctx, s, "surname", "rao", "admin123"); err != nil {
		t.Fatal(err)
	}
}

func TestChangePIN(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.admin(t, "a") // answer "Bruno"

	err := f.auth.ChangePIN(ctx, f.sess.Get("anon"), "bruno", "newpin1")
	wantErrType[*services.AuthorizationError](t, err)

	err = f.auth.ChangePIN(ctx, s, "max", "newpin1")
	wantErrType[*services.AuthorizationError](t, err)

	err = f.auth.ChangePIN(ctx, s, "bruno", "1")
	ve := wantErrType[*services.ValidationError](t, err)
	if ve.Field != "pin" {
		t.Fatalf("field = %q", ve.Field)
	}

	if err := f.auth.ChangePIN(ctx, s, " BRUNO ", "newpin1"); err != nil {
		t.Fatal(err)
	}

	fresh := f.sess.Get("fresh")
	if res, _ := f.auth.Login(ctx, fresh, "admin123"); res.OK {
		t.Fatal("old PIN still accepted")
	}
	if res, _ := f.auth.Login(ctx, fresh, "newpin1"); !res.OK {
		t.Fatal("new PIN rejected")
	}
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	s := f.admin(t, "a")
	f.auth.Logout(s)
	if f.auth.IsAdmin(s) {
		t.Fatal("still admin after logout")
	}
}
