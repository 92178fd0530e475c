package storage

// AccountID identifies the account owning a scoped record. The zero value is
// the anonymous, non-authenticated account, which maps to the legacy
// unscoped record keys and is never merged with a real account's data.
type AccountID string

// Anonymous is the unscoped account used before anyone signs in.
const Anonymous AccountID = ""

// Key names a record in the durable store.
type Key string

// Record keys. All per-account scoping goes through TasksKey/CounterKey so
// the scoping rule cannot drift between read and write sites.
const (
	usersKey       Key = "users"
	currentUserKey Key = "currentUser"
	tasksPrefix        = "todoTasks"
	counterPrefix      = "taskIdCounter"
)

// UsersKey is the record holding the full registered-account set.
func UsersKey() Key { return usersKey }

// CurrentUserKey is the record holding the active session projection.
func CurrentUserKey() Key { return currentUserKey }

// TasksKey is the record holding one account's task collection.
func TasksKey(id AccountID) Key {
	if id == Anonymous {
		return Key(tasksPrefix)
	}
	return Key(tasksPrefix + "_" + string(id))
}

// CounterKey is the record holding one account's next-task-id counter.
func CounterKey(id AccountID) Key {
	if id == Anonymous {
		return Key(counterPrefix)
	}
	return Key(counterPrefix + "_" + string(id))
}
