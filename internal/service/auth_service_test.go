package service

import (
	"errors"
	"testing"

	"football_iq_backend/internal/util"
)

func registerInput(username string) RegisterInput {
	return RegisterInput{
		Username:     username,
		Email:        username + "@club.test",
		Password:     "secret123",
		FavoriteTeam: " Arsenal ",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.auth.Register(registerInput("Bukayo"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.Token == "" || res.User.ID == 0 || res.User.FavoriteTeam != "Arsenal" {
		t.Fatalf("register result = %+v", res.User)
	}
	if res.User.PasswordHash == "secret123" {
		t.Fatal("password stored in plain text")
	}

	claims, err := util.ParseJWT(res.Token, env.cfg.JWT.Secret)
	if err != nil || claims.UserID != res.User.ID {
		t.Fatalf("token claims = %+v, %v", claims, err)
	}

	for _, identifier := range []string{"Bukayo", "bukayo", "BUKAYO@club.test"} {
		if _, err := env.auth.Login(identifier, "secret123"); err != nil {
			t.Fatalf("Login(%q): %v", identifier, err)
		}
	}
	if _, err := env.auth.Login("bukayo", "wrong"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, err := env.auth.Login("nobody", "secret123"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("unknown user err = %v", err)
	}
}

func TestRegisterConflicts(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.auth.Register(registerInput("saka")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	dupName := registerInput("SAKA")
	dupName.Email = "other@club.test"
	if _, err := env.auth.Register(dupName); !errors.Is(err, util.ErrUsernameTaken) {
		t.Fatalf("duplicate username err = %v", err)
	}

	dupEmail := registerInput("odegaard")
	dupEmail.Email = "saka@club.test"
	if _, err := env.auth.Register(dupEmail); !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("duplicate email err = %v", err)
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	env := newTestEnv(t)
	res, err := env.auth.Register(registerInput("retired"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := env.users.SetActive(res.User.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	if _, err := env.auth.Login("retired", "secret123"); !errors.Is(err, util.ErrAccountDeactivated) {
		t.Fatalf("deactivated login err = %v", err)
	}
	// 密码错误时不暴露账号状态
	if _, err := env.auth.Login("retired", "nope"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("deactivated wrong password err = %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	first, _ := env.auth.Register(registerInput("rice"))
	if _, err := env.auth.Register(registerInput("white")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	team := "Chelsea"
	updated, err := env.auth.UpdateProfile(first.User.ID, nil, &team)
	if err != nil {
		t.Fatalf("UpdateProfile team: %v", err)
	}
	if updated.FavoriteTeam != "Chelsea" || updated.Email != "rice@club.test" {
		t.Fatalf("profile = %+v", updated)
	}

	email := "  Declan@Club.test "
	updated, err = env.auth.UpdateProfile(first.User.ID, &email, nil)
	if err != nil {
		t.Fatalf("UpdateProfile email: %v", err)
	}
	if updated.Email != "declan@club.test" || updated.FavoriteTeam != "Chelsea" {
		t.Fatalf("profile = %+v", updated)
	}

	taken := "white@club.test"
	if _, err := env.auth.UpdateProfile(first.User.ID, &taken, nil); !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("taken email err = %v", err)
	}
	if _, err := env.auth.UpdateProfile(9999, nil, &team); !errors.Is(err, util.ErrUserNotFound) {
		t.Fatalf("missing user err = %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	res, _ := env.auth.Register(registerInput("trossard"))

	if err := env.auth.ChangePassword(res.User.ID, "bad", "newsecret1"); !errors.Is(err, util.ErrWrongPassword) {
		t.Fatalf("wrong current password err = %v", err)
	}
	if err := env.auth.ChangePassword(res.User.ID, "secret123", "newsecret1"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := env.auth.Login("trossard", "secret123"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("old password still works: %v", err)
	}
	if _, err := env.auth.Login("trossard", "newsecret1"); err != nil {
		t.Fatalf("Login with new password: %v", err)
	}
}
