package transportbox

import "time"

// StateLog records one transition. Entries are appended by the aggregate and never
// changed afterwards.
type StateLog struct {
	id          int
	state       State
	timestamp   time.Time
	userName    string
	description string
}

// RestoreStateLog rehydrates a persisted log entry.
func RestoreStateLog(id int, state State, timestamp time.Time, userName, description string) StateLog {
	return StateLog{
		id:          id,
		state:       state,
		timestamp:   timestamp,
		userName:    userName,
		description: description,
	}
}

// ID is the 1-based position of the entry in the box history.
func (l StateLog) ID() int { return l.id }
func (l StateLog) State() State { return l.state }
func (l StateLog) Timestamp() time.Time { return l.timestamp }
func (l StateLog) UserName() string { return l.userName }
func (l StateLog) Description() string { return l.description }
