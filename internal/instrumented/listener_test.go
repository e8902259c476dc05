package instrumented

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestAttributed_FillsMissingConsumer(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := NewMockListener(ctrl)
	l := Attributed(next, "probe")

	gomock.InOrder(
		next.EXPECT().EnvVariableQueried("A", "1", true, "probe"),
		next.EXPECT().SystemPropertyQueried("p", "", false, "explicit"),
		next.EXPECT().ExternalProcessStarted("sh -c true", "probe"),
		next.EXPECT().FileOpened("/f", "probe"),
	)

	l.EnvVariableQueried("A", "1", true, "")
	l.SystemPropertyQueried("p", "", false, "explicit")
	l.ExternalProcessStarted("sh -c true", "")
	l.FileOpened("/f", "")
}

func TestAttributed_EmptyConsumerReturnsNext(t *testing.T) {
	next := NopListener{}
	assert.Equal(t, Listener(next), Attributed(next, ""))
}
