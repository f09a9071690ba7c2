package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/handler/api"
	resdto "tablebook/internal/handler/dto/response"
	"tablebook/internal/usecase/commands"
	"tablebook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

var errUnexpectedCall = errors.New("unexpected call")

type stubReservationCommands struct {
	createFn     func(ctx context.Context, p commands.CreateReservationParams) (*queries.ReservationView, error)
	transitionFn func(ctx context.Context, restaurantID, id uuid.UUID, target reservation.Status, actor *uuid.UUID, reason string) (*queries.ReservationView, error)
	cancelFn     func(ctx context.Context, restaurantID uuid.UUID, code, phoneDigits, reason string) (*queries.ReservationView, error)
	assignFn     func(ctx context.Context, restaurantID, reservationID, tableID uuid.UUID, actor *uuid.UUID) (*queries.ReservationView, error)
}

func (s *stubReservationCommands) Create(ctx context.Context, p commands.CreateReservationParams) (*queries.ReservationView, error) {
	if s.createFn == nil {
		return nil, errUnexpectedCall
	}
	return s.createFn(ctx, p)
}

func (s *stubReservationCommands) CreateByStaff(ctx context.Context, p commands.StaffCreateParams) (*queries.ReservationView, error) {
	if s.createFn == nil {
		return nil, errUnexpectedCall
	}
	return s.createFn(ctx, p.CreateReservationParams)
}

func (s *stubReservationCommands) Transition(ctx context.Context, restaurantID, id uuid.UUID, target reservation.Status, actor *uuid.UUID, reason string) (*queries.ReservationView, error) {
	if s.transitionFn == nil {
		return nil, errUnexpectedCall
	}
	return s.transitionFn(ctx, restaurantID, id, target, actor, reason)
}

func (s *stubReservationCommands) CancelByCode(ctx context.Context, restaurantID uuid.UUID, code, phoneDigits, reason string) (*queries.ReservationView, error) {
	if s.cancelFn == nil {
		return nil, errUnexpectedCall
	}
	return s.cancelFn(ctx, restaurantID, code, phoneDigits, reason)
}

func (s *stubReservationCommands) AssignTable(ctx context.Context, restaurantID, reservationID, tableID uuid.UUID, actor *uuid.UUID) (*queries.ReservationView, error) {
	if s.assignFn == nil {
		return nil, errUnexpectedCall
	}
	return s.assignFn(ctx, restaurantID, reservationID, tableID, actor)
}

type stubReservationQueries struct {
	getByIDFn func(ctx context.Context, restaurantID, id uuid.UUID) (*queries.ReservationView, []queries.HistoryView, error)
	lookupFn  func(ctx context.Context, restaurantID uuid.UUID, code, phoneDigits string) (*queries.ReservationView, error)
}

func (s *stubReservationQueries) GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*queries.ReservationView, []queries.HistoryView, error) {
	if s.getByIDFn == nil {
		return nil, nil, errUnexpectedCall
	}
	return s.getByIDFn(ctx, restaurantID, id)
}

func (s *stubReservationQueries) LookupByCode(ctx context.Context, restaurantID uuid.UUID, code, phoneDigits string) (*queries.ReservationView, error) {
	if s.lookupFn == nil {
		return nil, errUnexpectedCall
	}
	return s.lookupFn(ctx, restaurantID, code, phoneDigits)
}

func (s *stubReservationQueries) List(context.Context, uuid.UUID, queries.ListFilter) (*queries.ReservationPage, error) {
	return nil, errUnexpectedCall
}

func (s *stubReservationQueries) Today(context.Context, uuid.UUID) ([]queries.ReservationListItem, error) {
	return nil, errUnexpectedCall
}

func (s *stubReservationQueries) Upcoming(context.Context, uuid.UUID) ([]queries.ReservationListItem, error) {
	return nil, errUnexpectedCall
}

func (s *stubReservationQueries) Stats(context.Context, uuid.UUID, time.Time) (*queries.DayStats, error) {
	return nil, errUnexpectedCall
}

func (s *stubReservationQueries) ListBlockedTimes(context.Context, uuid.UUID, time.Time, time.Time) ([]queries.BlockedTimeView, error) {
	return nil, errUnexpectedCall
}

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	stubCommands *stubReservationCommands
	stubQueries  *stubReservationQueries
	restaurantID uuid.UUID
	staffID      uuid.UUID
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.stubCommands = &stubReservationCommands{}
	s.stubQueries = &stubReservationQueries{}
	s.restaurantID = uuid.New()
	s.staffID = uuid.New()

	handler := api.NewReservationHandler(s.stubCommands, s.stubQueries, time.UTC)

	tenant := func(c *gin.Context) {
		c.Set("restaurant_id", s.restaurantID)
		c.Next()
	}
	staff := func(c *gin.Context) {
		c.Set("staff_id", s.staffID)
		c.Next()
	}

	s.router.POST("/reservations", tenant, handler.Create)
	s.router.GET("/reservations/lookup", tenant, handler.Lookup)
	s.router.POST("/reservations/cancel", tenant, handler.CancelByCode)
	s.router.GET("/dashboard/reservations/:id", tenant, staff, handler.Get)
	s.router.PATCH("/dashboard/reservations/:id/status", tenant, staff, handler.Transition)
	s.router.PUT("/dashboard/reservations/:id/table", tenant, staff, handler.AssignTable)
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func (s *ReservationHandlerTestSuite) perform(method, url string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *ReservationHandlerTestSuite) assertErrorMessage(rec *httptest.ResponseRecorder, status int, msg string) {
	s.Equal(status, rec.Code)
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(msg, body.Error.Message)
}

func (s *ReservationHandlerTestSuite) sampleView() *queries.ReservationView {
	start := time.Date(2026, 3, 19, 19, 0, 0, 0, time.UTC)
	return &queries.ReservationView{
		ID:               uuid.New(),
		RestaurantID:     s.restaurantID,
		GuestName:        "Iris Ota",
		GuestPhone:       "+15550107788",
		Date:             time.Date(2026, 3, 19, 0, 0, 0, 0, time.UTC),
		Time:             "19:00",
		StartAt:          start,
		PartySize:        2,
		DurationMinutes:  120,
		Status:           string(reservation.StatusConfirmed),
		Source:           string(reservation.SourceWebsite),
		ConfirmationCode: "BQ7XN2KW",
		CreatedAt:        start.Add(-72 * time.Hour),
		UpdatedAt:        start.Add(-72 * time.Hour),
	}
}

func validCreateBody() map[string]any {
	return map[string]any{
		"guest_name":  "Iris Ota",
		"guest_phone": "+15550107788",
		"date":        "2026-03-19",
		"time":        "19:00",
		"party_size":  2,
	}
}

func (s *ReservationHandlerTestSuite) TestCreate() {
	url := "/reservations"

	s.Run("success: returns 201 with the created reservation", func() {
		view := s.sampleView()
		s.stubCommands.createFn = func(_ context.Context, p commands.CreateReservationParams) (*queries.ReservationView, error) {
			s.Equal(s.restaurantID, p.RestaurantID)
			s.Equal("Iris Ota", p.GuestName)
			s.Equal(2, p.PartySize)
			s.Equal("19:00", p.Time.String())
			return view, nil
		}

		rec := s.perform(http.MethodPost, url, validCreateBody())

		s.Equal(http.StatusCreated, rec.Code)
		var resp resdto.ReservationResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal(view.ID, resp.ID)
		s.Equal("2026-03-19", resp.Date)
		s.Equal("BQ7XN2KW", resp.ConfirmationCode)
		s.Equal(string(reservation.StatusConfirmed), resp.Status)
	})

	s.Run("error: 400 on missing required fields", func() {
		for _, field := range []string{"guest_name", "guest_phone", "date", "time", "party_size"} {
			s.Run("missing "+field, func() {
				body := validCreateBody()
				delete(body, field)
				rec := s.perform(http.MethodPost, url, body)
				s.assertErrorMessage(rec, http.StatusBadRequest, "Invalid request format")
			})
		}
	})

	s.Run("error: 400 on malformed date", func() {
		body := validCreateBody()
		body["date"] = "19-03-2026"
		rec := s.perform(http.MethodPost, url, body)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "not accepting reservations",
				commandsError:  commands.ErrNotAcceptingReservations,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Restaurant is not accepting reservations",
			},
			{
				name:           "party size out of range",
				commandsError:  reservation.ErrPartySizeOutOfRange,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Party size outside restaurant limits",
			},
			{
				name:           "outside booking window",
				commandsError:  reservation.ErrOutsideBookingWindow,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Requested time is outside the booking window",
			},
			{
				name:           "outside opening hours",
				commandsError:  commands.ErrOutsideOpeningHours,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Requested time is outside opening hours",
			},
			{
				name:           "slot unavailable",
				commandsError:  commands.ErrSlotUnavailable,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "No table is free at the requested time",
			},
			{
				name:           "daily limit reached",
				commandsError:  commands.ErrDailyLimitReached,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Daily reservation limit reached",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.stubCommands.createFn = func(context.Context, commands.CreateReservationParams) (*queries.ReservationView, error) {
					return nil, tc.commandsError
				}
				rec := s.perform(http.MethodPost, url, validCreateBody())
				s.assertErrorMessage(rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *ReservationHandlerTestSuite) TestLookup() {
	s.Run("success: returns the matching reservation", func() {
		view := s.sampleView()
		s.stubQueries.lookupFn = func(_ context.Context, restaurantID uuid.UUID, code, phoneDigits string) (*queries.ReservationView, error) {
			s.Equal(s.restaurantID, restaurantID)
			s.Equal("BQ7XN2KW", code)
			s.Equal("7788", phoneDigits)
			return view, nil
		}

		rec := s.perform(http.MethodGet, "/reservations/lookup?code=BQ7XN2KW&phone_digits=7788", nil)

		s.Equal(http.StatusOK, rec.Code)
		var resp resdto.ReservationResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal(view.ID, resp.ID)
	})

	s.Run("success: phone digits are optional", func() {
		view := s.sampleView()
		s.stubQueries.lookupFn = func(_ context.Context, _ uuid.UUID, code, phoneDigits string) (*queries.ReservationView, error) {
			s.Equal("BQ7XN2KW", code)
			s.Empty(phoneDigits)
			return view, nil
		}

		rec := s.perform(http.MethodGet, "/reservations/lookup?code=BQ7XN2KW", nil)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 404 on mismatch", func() {
		s.stubQueries.lookupFn = func(context.Context, uuid.UUID, string, string) (*queries.ReservationView, error) {
			return nil, queries.ErrLookupMismatch
		}

		rec := s.perform(http.MethodGet, "/reservations/lookup?code=BQ7XN2KW&phone_digits=0000", nil)
		s.assertErrorMessage(rec, http.StatusNotFound, "No reservation matches the given code and phone")
	})
}

func (s *ReservationHandlerTestSuite) TestCancelByCode() {
	url := "/reservations/cancel"
	body := map[string]any{
		"confirmation_code": "BQ7XN2KW",
		"phone_digits":      "7788",
		"reason":            "plans changed",
	}

	s.Run("success: returns the cancelled reservation", func() {
		view := s.sampleView()
		view.Status = string(reservation.StatusCancelled)
		s.stubCommands.cancelFn = func(_ context.Context, restaurantID uuid.UUID, code, phoneDigits, reason string) (*queries.ReservationView, error) {
			s.Equal(s.restaurantID, restaurantID)
			s.Equal("BQ7XN2KW", code)
			s.Equal("7788", phoneDigits)
			s.Equal("plans changed", reason)
			return view, nil
		}

		rec := s.perform(http.MethodPost, url, body)

		s.Equal(http.StatusOK, rec.Code)
		var resp resdto.ReservationResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal(string(reservation.StatusCancelled), resp.Status)
	})

	s.Run("error: 400 when phone digits are too short", func() {
		short := map[string]any{"confirmation_code": "BQ7XN2KW", "phone_digits": "78"}
		rec := s.perform(http.MethodPost, url, short)
		s.assertErrorMessage(rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: 422 past the cancellation deadline", func() {
		s.stubCommands.cancelFn = func(context.Context, uuid.UUID, string, string, string) (*queries.ReservationView, error) {
			return nil, reservation.ErrCancelDeadlinePassed
		}
		rec := s.perform(http.MethodPost, url, body)
		s.assertErrorMessage(rec, http.StatusUnprocessableEntity, "Cancellation deadline has passed")
	})
}

func (s *ReservationHandlerTestSuite) TestGet() {
	id := uuid.New()
	url := "/dashboard/reservations/" + id.String()

	s.Run("success: returns reservation with history", func() {
		view := s.sampleView()
		view.ID = id
		history := []queries.HistoryView{
			{ID: uuid.New(), ReservationID: id, NewStatus: string(reservation.StatusConfirmed), CreatedAt: view.CreatedAt},
		}
		s.stubQueries.getByIDFn = func(_ context.Context, restaurantID, gotID uuid.UUID) (*queries.ReservationView, []queries.HistoryView, error) {
			s.Equal(s.restaurantID, restaurantID)
			s.Equal(id, gotID)
			return view, history, nil
		}

		rec := s.perform(http.MethodGet, url, nil)

		s.Equal(http.StatusOK, rec.Code)
		var resp resdto.ReservationDetailResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal(id, resp.Reservation.ID)
		s.Len(resp.History, 1)
		s.Equal(string(reservation.StatusConfirmed), resp.History[0].NewStatus)
	})

	s.Run("error: 400 for invalid UUID", func() {
		rec := s.perform(http.MethodGet, "/dashboard/reservations/not-a-uuid", nil)
		s.assertErrorMessage(rec, http.StatusBadRequest, "Invalid reservation ID format")
	})
}

func (s *ReservationHandlerTestSuite) TestTransition() {
	id := uuid.New()
	url := "/dashboard/reservations/" + id.String() + "/status"

	s.Run("success: passes the staff actor through", func() {
		view := s.sampleView()
		view.ID = id
		view.Status = string(reservation.StatusSeated)
		s.stubCommands.transitionFn = func(_ context.Context, restaurantID, gotID uuid.UUID, target reservation.Status, actor *uuid.UUID, reason string) (*queries.ReservationView, error) {
			s.Equal(s.restaurantID, restaurantID)
			s.Equal(id, gotID)
			s.Equal(reservation.StatusSeated, target)
			s.Require().NotNil(actor)
			s.Equal(s.staffID, *actor)
			return view, nil
		}

		rec := s.perform(http.MethodPatch, url, map[string]any{"status": "seated"})

		s.Equal(http.StatusOK, rec.Code)
		var resp resdto.ReservationResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal(string(reservation.StatusSeated), resp.Status)
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "reservation not found",
				commandsError:  commands.ErrReservationNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Reservation not found",
			},
			{
				name:           "invalid transition",
				commandsError:  reservation.ErrInvalidTransition,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Invalid status transition",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.stubCommands.transitionFn = func(context.Context, uuid.UUID, uuid.UUID, reservation.Status, *uuid.UUID, string) (*queries.ReservationView, error) {
					return nil, tc.commandsError
				}
				rec := s.perform(http.MethodPatch, url, map[string]any{"status": "completed"})
				s.assertErrorMessage(rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *ReservationHandlerTestSuite) TestAssignTable() {
	id := uuid.New()
	tableID := uuid.New()
	url := "/dashboard/reservations/" + id.String() + "/table"
	body := map[string]any{"table_id": tableID.String()}

	s.Run("success: returns the updated reservation", func() {
		view := s.sampleView()
		view.ID = id
		view.TableID = &tableID
		s.stubCommands.assignFn = func(_ context.Context, restaurantID, reservationID, gotTableID uuid.UUID, actor *uuid.UUID) (*queries.ReservationView, error) {
			s.Equal(s.restaurantID, restaurantID)
			s.Equal(id, reservationID)
			s.Equal(tableID, gotTableID)
			return view, nil
		}

		rec := s.perform(http.MethodPut, url, body)

		s.Equal(http.StatusOK, rec.Code)
		var resp resdto.ReservationResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Require().NotNil(resp.TableID)
		s.Equal(tableID, *resp.TableID)
	})

	s.Run("error: 409 when the table holds an overlapping reservation", func() {
		s.stubCommands.assignFn = func(context.Context, uuid.UUID, uuid.UUID, uuid.UUID, *uuid.UUID) (*queries.ReservationView, error) {
			return nil, commands.ErrTableConflict
		}
		rec := s.perform(http.MethodPut, url, body)
		s.assertErrorMessage(rec, http.StatusConflict, "Table already holds an overlapping reservation")
	})

	s.Run("error: 400 for a malformed table ID", func() {
		rec := s.perform(http.MethodPut, url, map[string]any{"table_id": "not-a-uuid"})
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
