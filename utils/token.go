package utils

import (
	"crypto/rand"
	"math/big"
)

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateUploadToken 生成上传链接的公开令牌。62 字符字母表、默认 16 位,
// 碰撞概率可以忽略,数据库唯一索引兜底。
func GenerateUploadToken(length int) string {
	if length <= 0 {
		length = 16
	}

	max := big.NewInt(int64(len(tokenAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand 读取失败说明运行环境已不可用
			panic(err)
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return string(buf)
}
