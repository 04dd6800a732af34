package main

import "strings"

// AllowList — набор разрешённых username в нижнем регистре
type AllowList map[string]struct{}

// ParseAllowList разбирает список вида "@alice, bob,carol".
// Пустая строка даёт пустой набор: доступ закрыт для всех.
func ParseAllowList(s string) AllowList {
	set := make(AllowList)
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimPrefix(strings.TrimSpace(part), "@")
		if name != "" {
			set[strings.ToLower(name)] = struct{}{}
		}
	}
	return set
}

// Allowed проверяет username без учёта регистра
func (a AllowList) Allowed(username string) bool {
	if username == "" {
		return false
	}
	_, ok := a[strings.ToLower(strings.TrimPrefix(username, "@"))]
	return ok
}
