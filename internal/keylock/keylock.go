// Package keylock はキー単位の相互排他を提供します。
// 同一キーへの操作を直列化するだけで、異なるキー同士は完全に並行動作します。
package keylock

import (
	"sync"
)

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex はキーごとのミューテックスを保持します。
// 使用されなくなったエントリは参照カウントで回収されるため、
// キー空間が増え続けてもマップは肥大化しません。
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

// New はKeyedMutexを生成します。
func New() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*lockEntry)}
}

// Lock は指定キーのロックを取得します。
func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	e := k.locks[key]
	if e == nil {
		e = &lockEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock は指定キーのロックを解放します。
func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	e := k.locks[key]
	if e == nil {
		k.mu.Unlock()
		panic("keylock: unlock of unlocked key " + key)
	}
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}
