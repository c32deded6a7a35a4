package backendfake

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Seeded role IDs.
const (
	RoleIDAdmin     int64 = 1
	RoleIDOrganizer int64 = 2
	RoleIDUser      int64 = 3
)

var errNotFound = errors.New("not found")

type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Status       string    `json:"status,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	PasswordHash string    `json:"-"`
}

func hashPassword(password string) (string, error) {
	// MinCost keeps tests fast.
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// userRepo is an in-memory user and role store keyed by ID and email.
type userRepo struct {
	users    map[int64]*User
	emailIDs map[string]int64
	roles    map[int64]*Role
	nextID   int64
	nextRole int64
	lock     sync.RWMutex
}

func newUserRepo() *userRepo {
	return &userRepo{
		users:    make(map[int64]*User),
		emailIDs: make(map[string]int64),
		roles: map[int64]*Role{
			RoleIDAdmin:     {ID: RoleIDAdmin, Name: "ADMIN"},
			RoleIDOrganizer: {ID: RoleIDOrganizer, Name: "ORGANIZER"},
			RoleIDUser:      {ID: RoleIDUser, Name: "USER"},
		},
		nextRole: RoleIDUser,
	}
}

func (ur *userRepo) Create(firstName, lastName, email, password string, roleID int64) (*User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	ur.lock.Lock()
	defer ur.lock.Unlock()

	email = strings.ToLower(email)
	if _, ok := ur.emailIDs[email]; ok {
		return nil, errors.New("email already registered")
	}
	role, ok := ur.roles[roleID]
	if !ok {
		role = ur.roles[RoleIDUser]
	}

	ur.nextID++
	now := time.Now().UTC()
	u := &User{
		ID:           ur.nextID,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		Status:       "ACTIVE",
		Role:         *role,
		CreatedAt:    now,
		UpdatedAt:    now,
		PasswordHash: hash,
	}
	ur.users[u.ID] = u
	ur.emailIDs[email] = u.ID
	return u, nil
}

func (ur *userRepo) GetByEmail(email string) (*User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIDs[strings.ToLower(email)]
	if !ok {
		return nil, errNotFound
	}
	u := *ur.users[id]
	return &u, nil
}

func (ur *userRepo) GetByID(id int64) (*User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	u, ok := ur.users[id]
	if !ok {
		return nil, errNotFound
	}
	c := *u
	return &c, nil
}

func (ur *userRepo) List() []*User {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	list := make([]*User, 0, len(ur.users))
	for _, u := range ur.users {
		c := *u
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// Update applies non-empty fields. A zero roleID keeps the current role.
func (ur *userRepo) Update(id int64, firstName, lastName, email string, roleID int64) (*User, error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	u, ok := ur.users[id]
	if !ok {
		return nil, errNotFound
	}
	if firstName != "" {
		u.FirstName = firstName
	}
	if lastName != "" {
		u.LastName = lastName
	}
	if email != "" && strings.ToLower(email) != u.Email {
		email = strings.ToLower(email)
		if _, taken := ur.emailIDs[email]; taken {
			return nil, errors.New("email already registered")
		}
		delete(ur.emailIDs, u.Email)
		u.Email = email
		ur.emailIDs[email] = id
	}
	if roleID != 0 {
		role, ok := ur.roles[roleID]
		if !ok {
			return nil, errors.New("unknown role")
		}
		u.Role = *role
	}
	u.UpdatedAt = time.Now().UTC()
	c := *u
	return &c, nil
}

func (ur *userRepo) SetPassword(id int64, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	ur.lock.Lock()
	defer ur.lock.Unlock()

	u, ok := ur.users[id]
	if !ok {
		return errNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (ur *userRepo) Delete(id int64) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	u, ok := ur.users[id]
	if !ok {
		return errNotFound
	}
	delete(ur.emailIDs, u.Email)
	delete(ur.users, id)
	return nil
}

func (ur *userRepo) Roles() []*Role {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	list := make([]*Role, 0, len(ur.roles))
	for _, r := range ur.roles {
		c := *r
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (ur *userRepo) Role(id int64) (*Role, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	r, ok := ur.roles[id]
	if !ok {
		return nil, errNotFound
	}
	c := *r
	return &c, nil
}

func (ur *userRepo) UpsertRole(id int64, name string) *Role {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if id == 0 {
		ur.nextRole++
		id = ur.nextRole
	}
	r := &Role{ID: id, Name: strings.ToUpper(name)}
	ur.roles[id] = r
	c := *r
	return &c
}

func (ur *userRepo) DeleteRole(id int64) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, ok := ur.roles[id]; !ok {
		return errNotFound
	}
	delete(ur.roles, id)
	return nil
}
