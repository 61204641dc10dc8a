package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// specialChars 是密码规则认可的特殊字符集合。
const specialChars = "@#$&*!"

const (
	upperChars    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars    = "0123456789"
	alphaNumChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// ValidatePassword 校验密码强度。
//
// 要求：长度 ≥ 8，至少一个大写字母、一个数字、一个特殊字符（@#$&*!）。
func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		}
	}
	return hasUpper && hasDigit && hasSpecial
}

// GenerateTempPassword 生成指定长度的临时密码。
//
// 结果保证至少包含一个大写字母、一个数字和一个特殊字符，剩余字符
// 从字母和数字中均匀抽取，最后整体洗牌，避免固定类别的字符出现在
// 可预测的位置。随机源使用 crypto/rand。
func GenerateTempPassword(length int) (string, error) {
	if length < 3 {
		return "", fmt.Errorf("temp password length too short: %d", length)
	}

	buf := make([]byte, 0, length)
	for _, set := range []string{upperChars, digitChars, specialChars} {
		ch, err := randomChar(set)
		if err != nil {
			return "", err
		}
		buf = append(buf, ch)
	}
	for len(buf) < length {
		ch, err := randomChar(alphaNumChars)
		if err != nil {
			return "", err
		}
		buf = append(buf, ch)
	}

	// Fisher-Yates 洗牌
	for i := len(buf) - 1; i > 0; i-- {
		j, err := randomInt(i + 1)
		if err != nil {
			return "", err
		}
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf), nil
}

// HashPassword 对明文密码做 bcrypt 哈希。
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 校验明文密码与哈希是否匹配。
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func randomChar(set string) (byte, error) {
	idx, err := randomInt(len(set))
	if err != nil {
		return 0, err
	}
	return set[idx], nil
}

func randomInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
