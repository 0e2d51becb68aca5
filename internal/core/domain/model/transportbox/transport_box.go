package transportbox

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"heblo/internal/core/domain/model/kernel"
	"heblo/internal/pkg/errs"
	"heblo/internal/pkg/guard"
)

// MaxDescriptionLength is the longest state log description that is stored.
const MaxDescriptionLength = 1024

var (
	// ErrTransportBoxIsNotConstructed is returned when a TransportBox instance was not created
	// through NewTransportBox or RestoreTransportBox.
	ErrTransportBoxIsNotConstructed = errors.New("TransportBox must be created via NewTransportBox constructor")

	// ErrItemsAreFrozen is the cause reported when items are changed outside the Opened state.
	ErrItemsAreFrozen = errors.New("items can only be changed while the box is Opened")
)

// TransportBox is the aggregate root of the logistics domain. It owns the packed items
// and the state history of one physical box.
//
// TransportBox follows these invariants:
//   - State changes only through the mutator methods, each checked against the transition table
//   - Code, once assigned, matches B + 3 digits and is stored upper-cased
//   - Items can be added or removed only while the box is Opened
//   - Every successful transition appends exactly one StateLog entry
//   - A rejected transition changes nothing
//
// The aggregate is not safe for concurrent use; the repository provides
// single-writer access by locking the box row for the duration of a transaction.
type TransportBox struct {
	id                  int
	code                kernel.BoxCode
	state               State
	defaultReceiveState State
	items               []*TransportBoxItem
	stateLog            []StateLog
	location            string
	lastStateChanged    time.Time

	createdAt time.Time
	createdBy string
	updatedAt time.Time
	updatedBy string

	guard guard.ConstructorGuard
}

// NewTransportBox creates an empty box in the New state.
//
// Parameters:
//   - id: identifier allocated by the persistence layer (must be positive)
//   - date: creation time
//   - userName: who created the box (required)
//
// Returns:
//   - *TransportBox: box in state New with no code, no items and an empty history
//   - error: validation error if id or userName is invalid
//
// Example:
//
//	id, _ := repo.NextID(ctx)
//	box, err := transportbox.NewTransportBox(id, time.Now(), "alice")
func NewTransportBox(id int, date time.Time, userName string) (*TransportBox, error) {
	box := &TransportBox{
		state:               New,
		defaultReceiveState: Stocked,
		lastStateChanged:    date,
		createdAt:           date,
		updatedAt:           date,
		guard:               guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		box.setID(id),
		box.setCreatedBy(userName),
	); err != nil {
		return nil, err
	}
	box.updatedBy = box.createdBy

	return box, nil
}

// Snapshot carries the persisted state of a box into RestoreTransportBox.
type Snapshot struct {
	ID                  int
	Code                string
	State               State
	DefaultReceiveState State
	Location            string
	LastStateChanged    time.Time
	CreatedAt           time.Time
	CreatedBy           string
	UpdatedAt           time.Time
	UpdatedBy           string
	Items               []*TransportBoxItem
	StateLog            []StateLog
}

// RestoreTransportBox rehydrates a box from persistence and re-validates it.
// Items are not checked against the state: boxes keep their items after leaving Opened.
func RestoreTransportBox(s Snapshot) (*TransportBox, error) {
	box := &TransportBox{
		location:         s.Location,
		lastStateChanged: s.LastStateChanged,
		createdAt:        s.CreatedAt,
		createdBy:        s.CreatedBy,
		updatedAt:        s.UpdatedAt,
		updatedBy:        s.UpdatedBy,
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		box.setID(s.ID),
		box.restoreCode(s.Code),
		box.restoreState(s.State, s.DefaultReceiveState),
		box.restoreItems(s.Items),
	); err != nil {
		return nil, err
	}

	box.stateLog = slices.Clone(s.StateLog)
	slices.SortStableFunc(box.stateLog, func(a, b StateLog) int { return a.id - b.id })

	return box, nil
}

// Validate ensures the box was created through one of the constructors.
func (b *TransportBox) Validate() error {
	if b == nil {
		return ErrTransportBoxIsNotConstructed
	}
	return b.guard.Validate(ErrTransportBoxIsNotConstructed)
}

// IsEqual compares boxes by identifier.
func (b *TransportBox) IsEqual(other *TransportBox) bool {
	return other != nil && b.id == other.id
}

func (b *TransportBox) ID() int { return b.id }
func (b *TransportBox) Code() kernel.BoxCode { return b.code }
func (b *TransportBox) State() State { return b.state }
func (b *TransportBox) DefaultReceiveState() State { return b.defaultReceiveState }
func (b *TransportBox) Location() string { return b.location }
func (b *TransportBox) LastStateChanged() time.Time { return b.lastStateChanged }
func (b *TransportBox) CreatedAt() time.Time { return b.createdAt }
func (b *TransportBox) CreatedBy() string { return b.createdBy }
func (b *TransportBox) UpdatedAt() time.Time { return b.updatedAt }
func (b *TransportBox) UpdatedBy() string { return b.updatedBy }

// Items returns a copy of the packed items in insertion order.
func (b *TransportBox) Items() []*TransportBoxItem {
	return slices.Clone(b.items)
}

// StateLog returns a copy of the transition history, oldest first.
func (b *TransportBox) StateLog() []StateLog {
	return slices.Clone(b.stateLog)
}

// AvailableTransitions returns the transitions out of the current state whose
// preconditions are currently met.
func (b *TransportBox) AvailableTransitions() []Transition {
	node, ok := Node(b.state)
	if !ok {
		return nil
	}

	var available []Transition
	for _, t := range node.Transitions() {
		if t.Check(b) == nil {
			available = append(available, t)
		}
	}
	return available
}

// Open assigns the box code and starts packing.
//
// The box must be New; the code must match B + 3 digits, case-insensitively, and is
// stored upper-cased.
//
// Example:
//
//	if err := box.Open("b001", time.Now(), "alice"); err != nil {
//	    // Invalid state or malformed code
//	}
//	box.Code().String() // "B001"
func (b *TransportBox) Open(boxCode string, date time.Time, userName string) error {
	if err := b.check(OpOpen, Opened); err != nil {
		return err
	}

	code, err := kernel.NewBoxCode(boxCode)
	if err != nil {
		return err
	}

	b.code = code
	b.apply(Opened, date, userName, "")
	return nil
}

// AddItem packs a product line into an Opened box and returns the created item.
// Item ids are assigned as one more than the highest id in the box.
func (b *TransportBox) AddItem(
	productCode string,
	productName string,
	amount kernel.Amount,
	date time.Time,
	userName string,
) (*TransportBoxItem, error) {
	if err := b.checkItemsEditable(); err != nil {
		return nil, err
	}

	item, err := NewTransportBoxItem(b.nextItemID(), productCode, productName, amount, date, userName)
	if err != nil {
		return nil, err
	}

	b.items = append(b.items, item)
	b.touch(date, userName)
	return item, nil
}

// DeleteItem removes an item from an Opened box and returns it.
func (b *TransportBox) DeleteItem(itemID int, date time.Time, userName string) (*TransportBoxItem, error) {
	if err := b.checkItemsEditable(); err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(b.items, func(i *TransportBoxItem) bool { return i.id == itemID })
	if idx < 0 {
		return nil, errs.NewObjectNotFoundError("itemID", itemID)
	}

	item := b.items[idx]
	b.items = slices.Delete(b.items, idx, idx+1)
	b.touch(date, userName)
	return item, nil
}

// ToTransit sends an Opened box out of the warehouse. The box must contain at least one item.
func (b *TransportBox) ToTransit(date time.Time, userName string) error {
	if err := b.check(OpToTransit, InTransit); err != nil {
		return err
	}

	b.apply(InTransit, date, userName, "")
	return nil
}

// ConfirmTransit is ToTransit guarded by a physical double-entry check: the caller
// re-enters the box number printed on the box, which must match the stored code
// case-insensitively.
func (b *TransportBox) ConfirmTransit(confirmedBoxNumber string, date time.Time, userName string) error {
	if err := b.check(OpToTransit, InTransit); err != nil {
		return err
	}

	if !b.code.Matches(confirmedBoxNumber) {
		return errs.NewValueIsInvalidErrorWithCause(
			"confirmed box number is invalid",
			fmt.Errorf("%q does not match box code %s", confirmedBoxNumber, b.code),
		)
	}

	return b.ToTransit(date, userName)
}

// ToReserve parks an Opened box at a warehouse location.
func (b *TransportBox) ToReserve(date time.Time, userName string, location string) error {
	if err := b.check(OpToReserve, Reserve); err != nil {
		return err
	}

	location = strings.TrimSpace(location)
	if location == "" {
		return errs.NewValueIsRequiredError("location")
	}

	b.location = location
	b.apply(Reserve, date, userName, "")
	return nil
}

// Receive accepts a box arriving from transit or reserve. receiveState is where
// stock-up processing will move the box afterwards and must be Stocked or Closed.
func (b *TransportBox) Receive(date time.Time, userName string, receiveState State) error {
	if err := b.check(OpReceive, Received); err != nil {
		return err
	}

	if !validReceiveState(receiveState) {
		return errs.NewValueIsInvalidErrorWithCause(
			"receive state is invalid",
			fmt.Errorf("%s is not one of [%s, %s]", receiveState, Stocked, Closed),
		)
	}

	b.defaultReceiveState = receiveState
	b.location = ""
	b.apply(Received, date, userName, "")
	return nil
}

// RevertToOpened returns a box in transit or reserve to packing. The code is kept
// and the location cleared.
func (b *TransportBox) RevertToOpened(date time.Time, userName string) error {
	if err := b.check(OpRevertToOpened, Opened); err != nil {
		return err
	}

	b.location = ""
	b.apply(Opened, date, userName, "")
	return nil
}

// Reset empties an Opened box, releases its code and moves it back to New.
func (b *TransportBox) Reset(date time.Time, userName string) error {
	if err := b.check(OpReset, New); err != nil {
		return err
	}

	b.items = nil
	b.code = kernel.BoxCode{}
	b.apply(New, date, userName, "")
	return nil
}

// ToPick marks a received box as stocked. From Error it is the manual recovery path.
func (b *TransportBox) ToPick(date time.Time, userName string) error {
	if err := b.check(OpToPick, Stocked); err != nil {
		return err
	}

	b.apply(Stocked, date, userName, "")
	return nil
}

// Close moves the box into the terminal Closed state.
func (b *TransportBox) Close(date time.Time, userName string) error {
	if err := b.check(OpClose, Closed); err != nil {
		return err
	}

	b.apply(Closed, date, userName, "")
	return nil
}

// Error records an operational failure. It is allowed from every state and the
// message is stored in the log entry, cut to MaxDescriptionLength runes.
func (b *TransportBox) Error(date time.Time, userName string, message string) {
	b.apply(Error, date, userName, truncateRunes(message, MaxDescriptionLength))
}

// check verifies that op can move the box from its current state to target,
// including the transition precondition.
func (b *TransportBox) check(op Operation, target State) error {
	t, ok := Lookup(b.state, op, target)
	if !ok {
		return newTransitionError(op, b.state, target, nil)
	}
	if err := t.Check(b); err != nil {
		return newTransitionError(op, b.state, target, err)
	}
	return nil
}

func (b *TransportBox) checkItemsEditable() error {
	if !b.state.AllowsItemChanges() {
		return errs.NewValueIsInvalidErrorWithCause(
			"box state is invalid",
			fmt.Errorf("%w, box is %s", ErrItemsAreFrozen, b.state),
		)
	}
	return nil
}

func (b *TransportBox) apply(target State, date time.Time, userName, description string) {
	b.state = target
	b.lastStateChanged = date
	b.stateLog = append(b.stateLog, StateLog{
		id:          b.nextLogID(),
		state:       target,
		timestamp:   date,
		userName:    userName,
		description: description,
	})
	b.touch(date, userName)
}

func (b *TransportBox) touch(date time.Time, userName string) {
	b.updatedAt = date
	b.updatedBy = userName
}

func (b *TransportBox) nextItemID() int {
	maxID := 0
	for _, i := range b.items {
		maxID = max(maxID, i.id)
	}
	return maxID + 1
}

func (b *TransportBox) nextLogID() int {
	if len(b.stateLog) == 0 {
		return 1
	}
	return b.stateLog[len(b.stateLog)-1].id + 1
}

func (b *TransportBox) setID(id int) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("box id is invalid", fmt.Errorf("%d is not greater than 0", id))
	}
	b.id = id
	return nil
}

func (b *TransportBox) setCreatedBy(userName string) error {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return errs.NewValueIsRequiredError("userName")
	}
	b.createdBy = userName
	return nil
}

func (b *TransportBox) restoreCode(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	code, err := kernel.NewBoxCode(raw)
	if err != nil {
		return err
	}
	b.code = code
	return nil
}

func (b *TransportBox) restoreState(state, receiveState State) error {
	if err := state.Validate(); err != nil {
		return err
	}
	if !validReceiveState(receiveState) {
		return errs.NewValueIsInvalidErrorWithCause(
			"receive state is invalid",
			fmt.Errorf("%s is not one of [%s, %s]", receiveState, Stocked, Closed),
		)
	}
	b.state = state
	b.defaultReceiveState = receiveState
	return nil
}

func (b *TransportBox) restoreItems(items []*TransportBoxItem) error {
	for _, i := range items {
		if err := i.Validate(); err != nil {
			return err
		}
	}
	b.items = slices.Clone(items)
	return nil
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
