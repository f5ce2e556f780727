package app

import "sync"

// KeyedLimiter не даёт двум операциям с одним ключом идти одновременно.
// Используется для загрузок одной и той же сдачи (задание + ученик).
type KeyedLimiter struct {
	mu    sync.Mutex
	byKey map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedLimiter() *KeyedLimiter {
	return &KeyedLimiter{byKey: make(map[string]*keyLock)}
}

// Lock возвращает функцию освобождения. Запись ключа удаляется, когда
// её больше никто не ждёт.
func (l *KeyedLimiter) Lock(key string) func() {
	l.mu.Lock()
	k, ok := l.byKey[key]
	if !ok {
		k = &keyLock{}
		l.byKey[key] = k
	}
	k.refs++
	l.mu.Unlock()

	k.mu.Lock()
	return func() {
		k.mu.Unlock()
		l.mu.Lock()
		k.refs--
		if k.refs == 0 {
			delete(l.byKey, key)
		}
		l.mu.Unlock()
	}
}

func (l *KeyedLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byKey)
}
