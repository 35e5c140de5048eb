package auth

import "golang.org/x/crypto/bcrypt"

// 平文パスワードをハッシュ化する約束
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

type bcryptPasswordHasher struct {
	cost int
}

// costが範囲外ならbcryptの既定値
func NewBcryptPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptPasswordHasher{cost: cost}
}

func (h *bcryptPasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type bcryptPasswordVerifier struct{}

func NewBcryptPasswordVerifier() PasswordVerifier {
	return &bcryptPasswordVerifier{}
}

func (v *bcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
