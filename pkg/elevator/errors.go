package elevator

import "errors"

var (
	// ErrValidation reports bad caller input. The simulation never starts.
	// ErrValidation은 잘못된 입력을 나타냅니다.
	ErrValidation = errors.New("validation error")

	// ErrInvalidState reports a violated phase precondition.
	ErrInvalidState = errors.New("invalid state")

	// ErrOperationTimeout reports a phase that did not finish within the
	// operation timeout (stuck door or motor).
	// ErrOperationTimeout은 문/모터 고장으로 단계가 제한 시간 내 끝나지 않았음을 나타냅니다.
	ErrOperationTimeout = errors.New("operation timed out - elevator malfunction")

	// ErrAlreadyRunning reports a re-entrant run attempt.
	ErrAlreadyRunning = errors.New("elevator is already running")
)
