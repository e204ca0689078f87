package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"turnero/internal/blobstore/memory"
	"turnero/internal/catalog"
	catalogModels "turnero/internal/catalog/models"
	"turnero/internal/queue/metrics"
	"turnero/internal/queue/models"
	"turnero/internal/queue/store"
	"turnero/internal/queue/store/mocks"
	dErrors "turnero/pkg/domain-errors"
	"turnero/pkg/platform/sentinel"
	"turnero/pkg/requestcontext"
)

var fixedNow = time.Date(2026, 3, 2, 9, 30, 15, 0, time.UTC)

func intPtr(i int) *int { return &i }

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	blobs   *memory.Store
	holder  *catalog.Holder
	metrics *metrics.Metrics
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithTime(context.Background(), fixedNow)
	s.blobs = memory.New()
	s.holder = catalog.NewHolder()
	s.holder.Ready(catalog.New([]catalogModels.Specialty{
		{Name: "Cardiología", Doctor: "Dr. Pérez"},
		{Name: "Pediatría", Doctor: "Dra. Gómez"},
		{Name: "Clínica", Doctor: "Dr. Pérez"},
	}))
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = s.newService()
}

func (s *ServiceSuite) newService() *Service {
	st, err := store.Hydrate(s.ctx, s.blobs)
	s.Require().NoError(err)
	return New(st, s.holder, WithMetrics(s.metrics), WithLocation(time.UTC))
}

func (s *ServiceSuite) register(name, age string, index int) models.Appointment {
	a, err := s.service.Register(s.ctx, models.Candidate{PatientName: name, Age: age, SpecialtyIndex: intPtr(index)})
	s.Require().NoError(err)
	return a
}

func (s *ServiceSuite) TestRegisterScenarioAna() {
	a, err := s.service.Register(s.ctx, models.Candidate{PatientName: "Ana", Age: "30", SpecialtyIndex: intPtr(0)})
	s.Require().NoError(err)

	s.Equal(models.Appointment{
		ID:           1,
		PatientName:  "Ana",
		Age:          30,
		Specialty:    "Cardiología",
		Doctor:       "Dr. Pérez",
		RegisteredAt: "09:30:15",
	}, a)
	s.Equal(float64(1), promtest.ToFloat64(s.metrics.Registered))
	s.Equal(float64(1), promtest.ToFloat64(s.metrics.QueueLength))
}

func (s *ServiceSuite) TestRegisterGrowsStoreAndAssignsNextID() {
	s.register("Ana", "30", 0)
	second := s.register("Luis", "41", 1)
	_, err := s.service.Remove(s.ctx, second.ID)
	s.Require().NoError(err)

	before := s.service.Len()
	third := s.register("Eva", "8", 2)
	s.Equal(before+1, s.service.Len())
	s.Equal(3, third.ID, "ids are never reused within a process")
}

func (s *ServiceSuite) TestRegisterAfterRestartUsesMaxPlusOne() {
	s.register("Ana", "30", 0)
	s.register("Luis", "41", 1)
	s.register("Eva", "8", 2)

	restarted := s.newService()
	a, err := restarted.Register(s.ctx, models.Candidate{PatientName: "Juan", Age: "5", SpecialtyIndex: intPtr(1)})
	s.Require().NoError(err)
	s.Equal(4, a.ID)
}

func (s *ServiceSuite) TestRegisterBySpecialtyKey() {
	key := catalog.SpecialtyKey("Pediatría", "Dra. Gómez")
	a, err := s.service.Register(s.ctx, models.Candidate{PatientName: "Eva", Age: "8", SpecialtyKey: key, SpecialtyIndex: intPtr(0)})
	s.Require().NoError(err)
	s.Equal("Pediatría", a.Specialty, "the key wins over the index")
	s.Equal("Dra. Gómez", a.Doctor)
}

func (s *ServiceSuite) TestRegisterTrimsName() {
	a := s.register("  Ana María  ", " 30 ", 0)
	s.Equal("Ana María", a.PatientName)
	s.Equal(30, a.Age)
}

func (s *ServiceSuite) TestRegisterValidation() {
	cases := []struct {
		name      string
		candidate models.Candidate
		code      dErrors.Code
		message   string
	}{
		{"empty name", models.Candidate{PatientName: "   ", Age: "x"}, dErrors.CodeEmptyName, models.MsgEmptyName},
		{"digit in name", models.Candidate{PatientName: "Juan3", Age: "30", SpecialtyIndex: intPtr(0)}, dErrors.CodeNameContainsDigit, models.MsgNameContainsDigit},
		{"digit wins over age", models.Candidate{PatientName: "Juan3", Age: "-1"}, dErrors.CodeNameContainsDigit, models.MsgNameContainsDigit},
		{"zero age", models.Candidate{PatientName: "Juan", Age: "0", SpecialtyIndex: intPtr(0)}, dErrors.CodeInvalidAge, models.MsgInvalidAge},
		{"negative age", models.Candidate{PatientName: "Juan", Age: "-4", SpecialtyIndex: intPtr(0)}, dErrors.CodeInvalidAge, models.MsgInvalidAge},
		{"non numeric age", models.Candidate{PatientName: "Juan", Age: "treinta", SpecialtyIndex: intPtr(0)}, dErrors.CodeInvalidAge, models.MsgInvalidAge},
		{"age above limit", models.Candidate{PatientName: "Juan", Age: "151", SpecialtyIndex: intPtr(0)}, dErrors.CodeInvalidAge, models.MsgInvalidAge},
		{"age that would overflow", models.Candidate{PatientName: "Juan", Age: "9223372036854775807", SpecialtyIndex: intPtr(0)}, dErrors.CodeInvalidAge, models.MsgInvalidAge},
		{"fractional age", models.Candidate{PatientName: "Juan", Age: "30.5", SpecialtyIndex: intPtr(0)}, dErrors.CodeInvalidAge, models.MsgInvalidAge},
		{"age wins over specialty", models.Candidate{PatientName: "Juan", Age: ""}, dErrors.CodeInvalidAge, models.MsgInvalidAge},
		{"no specialty", models.Candidate{PatientName: "Juan", Age: "30"}, dErrors.CodeSpecialtyNotSelected, models.MsgSpecialtyNotSelected},
		{"index out of range", models.Candidate{PatientName: "Juan", Age: "30", SpecialtyIndex: intPtr(9)}, dErrors.CodeSpecialtyNotSelected, models.MsgSpecialtyNotSelected},
		{"unknown key", models.Candidate{PatientName: "Juan", Age: "30", SpecialtyKey: "nope"}, dErrors.CodeSpecialtyNotSelected, models.MsgSpecialtyNotSelected},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.service.Register(s.ctx, tc.candidate)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, tc.code), "got %v", err)

			var de *dErrors.Error
			s.Require().True(errors.As(err, &de))
			s.Equal(tc.message, de.Message)
			s.Equal(0, s.service.Len(), "store unchanged")
		})
	}
	s.Equal(float64(1), promtest.ToFloat64(s.metrics.Rejected.WithLabelValues(string(dErrors.CodeEmptyName))))
}

func (s *ServiceSuite) TestRegisterScenarioJuan3LeavesStoreUnchanged() {
	s.register("Ana", "30", 0)
	before := s.service.FilterByDoctor(s.ctx, "")

	_, err := s.service.Register(s.ctx, models.Candidate{PatientName: "Juan3", Age: "30", SpecialtyIndex: intPtr(0)})
	s.True(dErrors.HasCode(err, dErrors.CodeNameContainsDigit))
	s.Equal(before, s.service.FilterByDoctor(s.ctx, ""))

	next := s.register("Juan", "30", 0)
	s.Equal(2, next.ID, "a rejected registration does not consume an id")
}

func (s *ServiceSuite) TestRegisterBeforeCatalogLoads() {
	st, err := store.Hydrate(s.ctx, memory.New())
	s.Require().NoError(err)
	svc := New(st, catalog.NewHolder())

	_, err = svc.Register(s.ctx, models.Candidate{PatientName: "Ana", Age: "30", SpecialtyIndex: intPtr(0)})
	s.True(dErrors.HasCode(err, dErrors.CodeSpecialtyNotSelected))
	s.Equal(0, svc.Len())
}

func (s *ServiceSuite) TestRegisterAfterCatalogFailure() {
	holder := catalog.NewHolder()
	_ = holder.Load(s.ctx, func(context.Context) ([]catalogModels.Specialty, error) {
		return nil, errors.New("offline")
	})
	st, err := store.Hydrate(s.ctx, memory.New())
	s.Require().NoError(err)
	svc := New(st, holder)

	_, err = svc.Register(s.ctx, models.Candidate{PatientName: "Ana", Age: "30", SpecialtyIndex: intPtr(0)})
	s.True(dErrors.HasCode(err, dErrors.CodeSpecialtyNotSelected))
}

func (s *ServiceSuite) TestRemoveRestoresPreviousSet() {
	s.register("Ana", "30", 0)
	s.register("Luis", "41", 1)
	before := s.service.FilterByDoctor(s.ctx, "")

	a := s.register("Eva", "8", 2)
	removed, err := s.service.Remove(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(a, removed)
	s.ElementsMatch(before, s.service.FilterByDoctor(s.ctx, ""))
	s.Equal(float64(1), promtest.ToFloat64(s.metrics.Removed))
}

func (s *ServiceSuite) TestRemoveKeepsRemainingIDs() {
	s.register("Ana", "30", 0)
	s.register("Luis", "41", 1)
	s.register("Eva", "8", 2)

	_, err := s.service.Remove(s.ctx, 2)
	s.Require().NoError(err)

	remaining := s.service.FilterByDoctor(s.ctx, "")
	s.Require().Len(remaining, 2)
	s.Equal(1, remaining[0].ID)
	s.Equal(3, remaining[1].ID)
}

func (s *ServiceSuite) TestRemoveUnknownID() {
	s.register("Ana", "30", 0)
	before := s.service.FilterByDoctor(s.ctx, "")

	_, err := s.service.Remove(s.ctx, 99)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Contains(err.Error(), "No se encontró el turno #99")
	s.Equal(before, s.service.FilterByDoctor(s.ctx, ""))
}

func (s *ServiceSuite) TestMutationsArePersisted() {
	s.register("Ana", "30", 0)
	s.register("Luis", "41", 1)
	_, err := s.service.Remove(s.ctx, 1)
	s.Require().NoError(err)

	restarted := s.newService()
	s.Equal(s.service.FilterByDoctor(s.ctx, ""), restarted.FilterByDoctor(s.ctx, ""))
}

func (s *ServiceSuite) TestFilterByDoctor() {
	s.register("Ana", "30", 0)  // Dr. Pérez
	s.register("Luis", "41", 1) // Dra. Gómez
	s.register("Eva", "8", 2)   // Dr. Pérez

	all := s.service.FilterByDoctor(s.ctx, "")
	s.Len(all, 3)

	perez := s.service.FilterByDoctor(s.ctx, "Dr. Pérez")
	s.Require().Len(perez, 2)
	s.Equal("Ana", perez[0].PatientName)
	s.Equal("Eva", perez[1].PatientName)

	s.Empty(s.service.FilterByDoctor(s.ctx, "Dr. Nadie"))
}

func (s *ServiceSuite) TestWaitTimes() {
	s.register("Ana", "30", 0)
	s.register("Luis", "41", 1)
	s.register("Eva", "8", 2)
	s.register("Juan", "5", 0)

	r, err := s.service.WaitTimes(s.ctx, "Dr. Pérez")
	s.Require().NoError(err)
	s.Require().Len(r.Entries, 3)
	s.Equal([]int{0, 15, 30}, []int{r.Entries[0].WaitMinutes, r.Entries[1].WaitMinutes, r.Entries[2].WaitMinutes})

	_, err = s.service.WaitTimes(s.ctx, "Dr. Nadie")
	s.ErrorIs(err, models.ErrNoAppointments)
}

func (s *ServiceSuite) TestWaitTimesCustomSlot() {
	st, err := store.Hydrate(s.ctx, memory.New())
	s.Require().NoError(err)
	svc := New(st, s.holder, WithSlotDuration(20*time.Minute))
	for _, name := range []string{"Ana", "Luis"} {
		_, err := svc.Register(s.ctx, models.Candidate{PatientName: name, Age: "30", SpecialtyIndex: intPtr(0)})
		s.Require().NoError(err)
	}

	r, err := svc.WaitTimes(s.ctx, "")
	s.Require().NoError(err)
	s.Equal(20, r.Entries[1].WaitMinutes)
}

func (s *ServiceSuite) TestStatisticsScenario() {
	holder := catalog.NewHolder()
	holder.Ready(catalog.New([]catalogModels.Specialty{
		{Name: "Pediatría", Doctor: "Dra. Gómez"},
		{Name: "Clínica", Doctor: "Dr. Pérez"},
	}))
	st, err := store.Hydrate(s.ctx, memory.New())
	s.Require().NoError(err)
	svc := New(st, holder)
	for _, idx := range []int{0, 0, 1, 0} {
		_, err := svc.Register(s.ctx, models.Candidate{PatientName: "Paciente", Age: "10", SpecialtyIndex: intPtr(idx)})
		s.Require().NoError(err)
	}

	r, err := svc.Statistics(s.ctx, "")
	s.Require().NoError(err)
	text := r.Text()
	s.Contains(text, "Pediatría: 3 turnos (75.0%)")
	s.Contains(text, "Clínica: 1 turnos (25.0%)")
	s.Contains(text, "Total turnos: 4")
	s.Contains(text, "Edad promedio: 10.0 años")
}

func (s *ServiceSuite) TestStatisticsEmpty() {
	_, err := s.service.Statistics(s.ctx, "")
	s.ErrorIs(err, models.ErrNoAppointments)
}

func (s *ServiceSuite) TestStatisticsWithOldestAcceptedAge() {
	s.register("Ana", "150", 0)
	s.register("Luis", "150", 0)

	_, err := s.service.Register(s.ctx, models.Candidate{PatientName: "Eva", Age: "9223372036854775807", SpecialtyIndex: intPtr(0)})
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidAge))

	r, err := s.service.Statistics(s.ctx, "")
	s.Require().NoError(err)
	s.Equal(150.0, r.AverageAge)
	s.Contains(r.Text(), "Edad promedio: 150.0 años")
}

func (s *ServiceSuite) TestConcurrentRegistrationsGetDistinctIDs() {
	const n = 50
	var wg sync.WaitGroup
	ids := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := s.service.Register(s.ctx, models.Candidate{PatientName: "Ana", Age: "30", SpecialtyIndex: intPtr(0)})
			if err == nil {
				ids <- a.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int]bool{}
	for id := range ids {
		s.False(seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	s.Len(seen, n)
	s.Equal(n, s.service.Len())
}

func TestPersistFailureRollsBack(t *testing.T) {
	ctx := requestcontext.WithTime(context.Background(), fixedNow)
	holder := catalog.NewHolder()
	holder.Ready(catalog.New([]catalogModels.Specialty{{Name: "Cardiología", Doctor: "Dr. Pérez"}}))

	ctrl := gomock.NewController(t)
	blobs := mocks.NewMockBlobStore(ctrl)
	blobs.EXPECT().Get(gomock.Any(), store.DefaultKey).
		Return([]byte(`[{"id":5,"patientName":"Ana","age":30,"specialty":"Cardiología","doctor":"Dr. Pérez","registeredAt":"08:00:00"}]`), nil)
	blobs.EXPECT().Put(gomock.Any(), store.DefaultKey, gomock.Any()).Return(errors.New("disk full")).Times(2)

	st, err := store.Hydrate(ctx, blobs)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	m := metrics.New(prometheus.NewRegistry())
	svc := New(st, holder, WithMetrics(m))

	_, err = svc.Register(ctx, models.Candidate{PatientName: "Luis", Age: "41", SpecialtyIndex: intPtr(0)})
	if !dErrors.HasCode(err, dErrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if svc.Len() != 1 {
		t.Fatalf("register was not rolled back, len=%d", svc.Len())
	}

	_, err = svc.Remove(ctx, 5)
	if !dErrors.HasCode(err, dErrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if got := svc.FilterByDoctor(ctx, ""); len(got) != 1 || got[0].ID != 5 {
		t.Fatalf("remove was not rolled back: %+v", got)
	}
	if got := promtest.ToFloat64(m.PersistFailures); got != 2 {
		t.Fatalf("expected 2 persist failures, got %v", got)
	}
}

func TestHydrateNotFoundThroughMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	blobs := mocks.NewMockBlobStore(ctrl)
	blobs.EXPECT().Get(gomock.Any(), store.DefaultKey).Return(nil, sentinel.ErrNotFound)

	st, err := store.Hydrate(context.Background(), blobs)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	svc := New(st, catalog.NewHolder())
	if svc.Len() != 0 {
		t.Fatalf("expected empty queue")
	}
}
