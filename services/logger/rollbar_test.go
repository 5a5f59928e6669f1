package logsvc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"testing"

	"github.com/rollbar/rollbar-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
)

func newTestLogger(buf *bytes.Buffer) *RollbarLogger {
	conf := &core.Config{Env: "TEST", Debug: true, TestMode: true}
	return NewRollbarLogger(log.New(buf, "", 0), conf)
}

func TestRollbarLogger_prepare(t *testing.T) {
	l := newTestLogger(new(bytes.Buffer))
	extras := map[string]interface{}{"result_id": "r1"}

	tests := []struct {
		name       string
		args       []interface{}
		wantLen    int
		wantPerson *rollbar.Person
	}{
		{
			name:    "no person",
			args:    []interface{}{extras},
			wantLen: 2,
		},
		{
			name:       "person moved to context",
			args:       []interface{}{extras, core.LogPerson{ID: "u1", Username: "jdoe"}},
			wantLen:    3,
			wantPerson: &rollbar.Person{Id: "u1", Username: "jdoe"},
		},
		{
			name:       "only the first person is kept",
			args:       []interface{}{core.LogPerson{ID: "u1", Username: "jdoe"}, core.LogPerson{ID: "u2"}},
			wantLen:    2,
			wantPerson: &rollbar.Person{Id: "u1", Username: "jdoe"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := l.prepare("msg", tc.args)
			require.Len(t, got, tc.wantLen)
			assert.Equal(t, "msg", got[0])

			var ctx context.Context
			for _, arg := range got {
				_, isPerson := arg.(core.LogPerson)
				assert.False(t, isPerson, "LogPerson must not reach rollbar")
				if c, ok := arg.(context.Context); ok {
					ctx = c
				}
			}

			if tc.wantPerson == nil {
				assert.Nil(t, ctx)
				return
			}
			require.NotNil(t, ctx)
			p, ok := rollbar.PersonFromContext(ctx)
			require.True(t, ok)
			assert.Equal(t, tc.wantPerson, p)
		})
	}
}

func TestRollbarLogger_concurrentPersons(t *testing.T) {
	buf := new(bytes.Buffer)
	l := newTestLogger(buf)

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			person := core.LogPerson{ID: fmt.Sprintf("u%d", i), Username: fmt.Sprintf("user%d", i)}
			l.Info("result created", map[string]interface{}{"n": i}, person)
			l.Error("storage failure", errors.New("connection reset"), person)
		}(i)
	}
	wg.Wait()

	out := buf.String()
	assert.Equal(t, workers, strings.Count(out, "INFO: result created"))
	assert.Equal(t, workers, strings.Count(out, "ERROR: storage failure"))
}
