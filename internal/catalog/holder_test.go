package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"turnero/internal/catalog/models"
	dErrors "turnero/pkg/domain-errors"
)

type HolderSuite struct {
	suite.Suite
	holder *Holder
}

func TestHolderSuite(t *testing.T) {
	suite.Run(t, new(HolderSuite))
}

func (s *HolderSuite) SetupTest() {
	s.holder = NewHolder()
}

func (s *HolderSuite) TestStartsPending() {
	c, state, err := s.holder.Current()
	s.Nil(c)
	s.Equal(models.StatePending, state)
	s.NoError(err)
}

func (s *HolderSuite) TestLoadSuccess() {
	err := s.holder.Load(context.Background(), func(context.Context) ([]models.Specialty, error) {
		return sampleRecords(), nil
	})
	s.Require().NoError(err)

	c, state, err := s.holder.Current()
	s.NoError(err)
	s.Equal(models.StateReady, state)
	s.Equal(3, c.Len())
}

func (s *HolderSuite) TestLoadFailureIsPermanent() {
	err := s.holder.Load(context.Background(), func(context.Context) ([]models.Specialty, error) {
		return nil, errors.New("connection refused")
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeCatalogLoadFailure))

	c, state, loadErr := s.holder.Current()
	s.Nil(c)
	s.Equal(models.StateFailed, state)
	s.True(dErrors.HasCode(loadErr, dErrors.CodeCatalogLoadFailure))

	calls := 0
	err = s.holder.Load(context.Background(), func(context.Context) ([]models.Specialty, error) {
		calls++
		return sampleRecords(), nil
	})
	s.Error(err)
	s.Zero(calls, "no retry after a failed fetch")
	s.Equal(models.StateFailed, s.holder.State())
}

func (s *HolderSuite) TestReadyInstallsCatalog() {
	s.holder.Ready(New(sampleRecords()))
	s.Equal(models.StateReady, s.holder.State())
}
