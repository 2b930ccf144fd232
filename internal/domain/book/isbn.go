package book

import "strings"

const isbn13Length = 13

// IsValidISBN13 校验ISBN-13格式与校验位
//
// 规则:
// 1. 空串或纯空白视为非法
// 2. 去掉连字符与首尾空白后,必须恰好13位数字
// 3. 前12位按下标加权(偶数位权重1,奇数位权重3)求和,
//    校验位 = (10 - sum%10) % 10,必须等于第13位
//
// 示例:
//
//	IsValidISBN13("978-1-234-56789-7") // true
//	IsValidISBN13("9781234567890")     // false,校验位不匹配
func IsValidISBN13(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}

	isbn := NormalizeISBN(raw)
	if len(isbn) != isbn13Length {
		return false
	}

	sum := 0
	for i := 0; i < isbn13Length; i++ {
		c := isbn[i]
		if c < '0' || c > '9' {
			return false
		}
		if i == isbn13Length-1 {
			break
		}
		weight := 1
		if i%2 == 1 {
			weight = 3
		}
		sum += int(c-'0') * weight
	}

	check := (10 - sum%10) % 10
	return int(isbn[isbn13Length-1]-'0') == check
}

// NormalizeISBN 返回ISBN的规范形式(去掉连字符与首尾空白)
// 存储层以规范形式作为唯一键,978-1-234-56789-7与9781234567897视为同一ISBN
func NormalizeISBN(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, "-", ""))
}
