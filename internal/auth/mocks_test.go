// ABOUTME: In-memory store fakes shared by auth tests
// ABOUTME: Small map-backed implementations of the narrow store interfaces

package auth

import (
	"context"

	"github.com/cortexui/cortex-api/internal/store"
)

type fakeUserStore struct {
	users map[string]*store.User
}

func newFakeUserStore(users ...*store.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[string]*store.User)}
	for _, u := range users {
		f.users[u.UID] = u
	}
	return f
}

func (f *fakeUserStore) GetUser(_ context.Context, uid string) (*store.User, error) {
	u, ok := f.users[uid]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

type fakeKeyStore struct {
	keys    map[string]*store.PublicKey
	touched []string
}

func newFakeKeyStore(keys ...*store.PublicKey) *fakeKeyStore {
	f := &fakeKeyStore{keys: make(map[string]*store.PublicKey)}
	for _, k := range keys {
		f.keys[k.Key] = k
	}
	return f
}

func (f *fakeKeyStore) GetPublicKeyByValue(_ context.Context, value string) (*store.PublicKey, error) {
	k, ok := f.keys[value]
	if !ok {
		return nil, store.ErrNotFound
	}
	return k, nil
}

func (f *fakeKeyStore) TouchPublicKey(_ context.Context, uid string) error {
	f.touched = append(f.touched, uid)
	return nil
}

type fakeLoginStore struct {
	attempts []*store.LoginAttempt
	err      error
}

func (f *fakeLoginStore) SaveLoginAttempt(_ context.Context, attempt *store.LoginAttempt) error {
	if f.err != nil {
		return f.err
	}
	f.attempts = append(f.attempts, attempt)
	return nil
}
