package redis

import "fmt"

const keyPrefix = "teammatch"

func ProfileKey(id string) string {
	return fmt.Sprintf("%s:profile:%s", keyPrefix, id)
}

func MatchKey(id string) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}
