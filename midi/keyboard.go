package midi

import (
	"fmt"

	"fretloop/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// KeyboardController handles a standard MIDI keyboard
type KeyboardController struct {
	id       string
	inPort   drivers.In
	stopFunc func()

	noteChan chan NoteEvent
}

// NewKeyboardController creates a keyboard controller (input only)
func NewKeyboardController(id string, inPort drivers.In) (*KeyboardController, error) {
	kb := &KeyboardController{
		id:       id,
		inPort:   inPort,
		noteChan: make(chan NoteEvent, 32),
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			var channel, note, velocity uint8
			if msg.GetNoteStart(&channel, &note, &velocity) {
				select {
				case kb.noteChan <- NoteEvent{Note: note, Velocity: velocity, Channel: channel}:
				default:
					debug.Log("keyboard", "dropped note %d, channel full", note)
				}
			}
		}, gomidi.HandleError(func(err error) {
			debug.Log("keyboard", "listener error on %s: %v", id, err)
		}))
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		kb.stopFunc = stop
	}

	return kb, nil
}

func (kb *KeyboardController) ID() string {
	return kb.id
}

func (kb *KeyboardController) NoteEvents() <-chan NoteEvent {
	return kb.noteChan
}

func (kb *KeyboardController) Close() error {
	if kb.stopFunc != nil {
		kb.stopFunc()
	}
	close(kb.noteChan)
	return nil
}
