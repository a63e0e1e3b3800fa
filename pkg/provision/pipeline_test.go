package provision

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
	"sigs.k8s.io/yaml"

	"github.com/solonode/solonode/pkg/apis/solonode"
	"github.com/solonode/solonode/pkg/apis/solonode/v1alpha1"
	"github.com/solonode/solonode/pkg/constants"
	"github.com/solonode/solonode/pkg/utils"
)

type PipelineTestSuite struct {
	suite.Suite
	OldFS utils.FileSystem
	Out   *bytes.Buffer
}

func (s *PipelineTestSuite) SetupTest() {
	s.OldFS = utils.FS
	utils.FS = utils.NewMemMapFS()
	s.Out = new(bytes.Buffer)
}

func (s *PipelineTestSuite) TearDownTest() {
	utils.FS = s.OldFS
}

func (s *PipelineTestSuite) newData() *RunData {
	return &RunData{Config: &v1alpha1.ProvisionConfig{CNI: solonode.CNIFlannel}}
}

func (s *PipelineTestSuite) TestRunsStagesInOrder() {
	assert := s.Require()
	var order []string
	stage := func(name string, policy Policy) Stage {
		return Stage{
			Name:   name,
			Short:  name,
			Policy: policy,
			Run: func(ctx context.Context, data *RunData) (*Result, error) {
				order = append(order, name)
				return &Result{}, nil
			},
		}
	}

	pipeline := &Pipeline{
		Stages: []Stage{stage("first", PolicyRequired), stage("second", PolicyRequired), stage("third", PolicyBestEffort)},
		Out:    s.Out,
	}
	journal, err := pipeline.Run(context.Background(), s.newData())
	assert.NoError(err)
	assert.Equal([]string{"first", "second", "third"}, order)
	assert.Len(journal.Records, 3)
	assert.NotEmpty(journal.RunID)
	assert.Contains(s.Out.String(), "[0/2] first")
	assert.Contains(s.Out.String(), "[2/2] third")
}

func (s *PipelineTestSuite) TestBestEffortFailureContinues() {
	assert := s.Require()
	ran := false

	pipeline := &Pipeline{
		Stages: []Stage{
			{Name: "optional", Short: "optional", Policy: PolicyBestEffort,
				Run: func(ctx context.Context, data *RunData) (*Result, error) {
					return nil, errors.New("boom")
				}},
			{Name: "required", Short: "required", Policy: PolicyRequired,
				Run: func(ctx context.Context, data *RunData) (*Result, error) {
					ran = true
					return &Result{}, nil
				}},
		},
		Out: s.Out,
	}
	journal, err := pipeline.Run(context.Background(), s.newData())
	assert.NoError(err, "The run must survive a best-effort failure")
	assert.True(ran)
	assert.Equal("failed (ignored)", journal.Records[0].Outcome)
	assert.Equal("succeeded", journal.Records[1].Outcome)
}

func (s *PipelineTestSuite) TestRequiredFailureAborts() {
	assert := s.Require()
	reached := false

	pipeline := &Pipeline{
		Stages: []Stage{
			{Name: "failing", Short: "failing", Policy: PolicyRequired,
				Run: func(ctx context.Context, data *RunData) (*Result, error) {
					return nil, solonode.NewExitError(solonode.ExitUnsupportedCNI, "unsupported CNI")
				}},
			{Name: "unreachable", Short: "unreachable", Policy: PolicyRequired,
				Run: func(ctx context.Context, data *RunData) (*Result, error) {
					reached = true
					return &Result{}, nil
				}},
		},
		Out: s.Out,
	}
	journal, err := pipeline.Run(context.Background(), s.newData())
	assert.Error(err)
	assert.False(reached, "Nothing may run after a required failure")
	assert.Len(journal.Records, 1)

	var exitErr *solonode.ExitError
	assert.True(errors.As(err, &exitErr), "The exit code must survive wrapping")
	assert.Equal(solonode.ExitUnsupportedCNI, exitErr.Code)
}

func (s *PipelineTestSuite) TestDryRunSkipsExecution() {
	assert := s.Require()
	ran := false

	pipeline := &Pipeline{
		Stages: []Stage{
			{Name: "stage", Short: "stage", Policy: PolicyRequired,
				Run: func(ctx context.Context, data *RunData) (*Result, error) {
					ran = true
					return &Result{}, nil
				}},
		},
		Out:    s.Out,
		DryRun: true,
	}
	journal, err := pipeline.Run(context.Background(), s.newData())
	assert.NoError(err)
	assert.False(ran, "Dry-run must not execute stages")
	assert.Equal("skipped (dry-run)", journal.Records[0].Outcome)
	assert.Contains(s.Out.String(), "[0/0] stage")
}

func (s *PipelineTestSuite) TestJournalIsWritten() {
	assert := s.Require()
	pipeline := &Pipeline{
		Stages: []Stage{
			{Name: "stage", Short: "stage", Policy: PolicyRequired,
				Run: func(ctx context.Context, data *RunData) (*Result, error) {
					result := &Result{}
					result.Changed("did something")
					return result, nil
				}},
		},
		Out: s.Out,
	}
	_, err := pipeline.Run(context.Background(), s.newData())
	assert.NoError(err)

	content, err := utils.FS.ReadFile(constants.JournalFile)
	assert.NoError(err)

	journal := &Journal{}
	assert.NoError(yaml.Unmarshal(content, journal))
	assert.Equal(solonode.CNIFlannel, journal.CNI)
	assert.Len(journal.Records, 1)
	assert.Equal([]string{"did something"}, journal.Records[0].Changes)
}

func TestPipeline(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}
