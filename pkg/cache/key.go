package cache

import "strings"

// KeyPrefix namespaces menu entries in Redis.
const KeyPrefix = "menu"

// Key identifies a cached assembled menu.
type Key struct {
	// ShopGUID is the shop identifier the menu belongs to.
	ShopGUID string
}

// MenuKey returns the cache key for a shop.
func MenuKey(shopGUID string) Key {
	return Key{ShopGUID: shopGUID}
}

// String renders the Redis key.
// Format: menu:<shopGuid>
//
// Example:
//   menu:ABC
func (k Key) String() string {
	return strings.Join([]string{KeyPrefix, k.ShopGUID}, ":")
}
