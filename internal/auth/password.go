package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword は平文パスワードをbcryptでハッシュ化する。
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword は平文パスワードとbcryptハッシュの一致を検証する。
// ハッシュが不正な形式の場合もfalseを返す。
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
