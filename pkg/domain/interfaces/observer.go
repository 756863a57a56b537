package interfaces

import (
	"github.com/secmon-lab/ethiq/pkg/domain/types"
)

// TransitionObserver receives the outcome of every transition request
type TransitionObserver interface {
	ObserveTransition(kind types.Kind, from, to types.Status)
	ObserveRejection(reason string)
}
