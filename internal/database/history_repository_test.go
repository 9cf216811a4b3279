package database_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Fozan3060/ai-career-coach/internal/database"
	"github.com/Fozan3060/ai-career-coach/internal/domain"
)

func historyColumns() []string {
	return []string{"id", "record_id", "content", "user_email", "ai_agent_type", "meta_data", "created_at"}
}

func TestHistoryRepository_Create(t *testing.T) {
	t.Helper()

	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	repo := database.NewHistoryRepository(db)
	ctx := context.Background()

	rec := &domain.HistoryRecord{
		RecordID:    "rec-123",
		Content:     json.RawMessage(`{"summary":"ok"}`),
		UserEmail:   testEmail,
		AIAgentType: domain.TagResume,
		MetaData:    "https://files.example.com/resumes/rec-123.pdf",
	}

	testCases := []struct {
		name      string
		setupMock func()
		wantID    int64
		wantErr   bool
	}{
		{
			name: "inserts record and returns id",
			setupMock: func() {
				rows := sqlmock.NewRows([]string{"id"}).AddRow(7)
				mock.ExpectQuery("INSERT INTO history").
					WithArgs(rec.RecordID, []byte(rec.Content), rec.UserEmail, rec.AIAgentType, sqlmock.AnyArg()).
					WillReturnRows(rows)
			},
			wantID: 7,
		},
		{
			name: "database error is surfaced",
			setupMock: func() {
				mock.ExpectQuery("INSERT INTO history").
					WithArgs(rec.RecordID, []byte(rec.Content), rec.UserEmail, rec.AIAgentType, sqlmock.AnyArg()).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()

			id, callErr := repo.Create(ctx, rec)
			if (callErr != nil) != tc.wantErr {
				t.Errorf("Create() error = %v, wantErr %v", callErr, tc.wantErr)
			}
			if id != tc.wantID {
				t.Errorf("Create() = %d, want %d", id, tc.wantID)
			}

			if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
				t.Errorf("unfulfilled expectations: %v", expectErr)
			}
		})
	}
}

func TestHistoryRepository_ReplaceContent(t *testing.T) {
	t.Helper()

	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	repo := database.NewHistoryRepository(db)
	ctx := context.Background()
	content := json.RawMessage(`{"updated":true}`)

	testCases := []struct {
		name      string
		setupMock func()
		wantRows  int64
		wantErr   bool
	}{
		{
			name: "replaces matching rows",
			setupMock: func() {
				mock.ExpectExec("UPDATE history").
					WithArgs("rec-123", []byte(content)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantRows: 1,
		},
		{
			// Unknown keys are not an error: the update touches nothing.
			name: "unknown key succeeds with zero rows",
			setupMock: func() {
				mock.ExpectExec("UPDATE history").
					WithArgs("rec-123", []byte(content)).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantRows: 0,
		},
		{
			name: "database error is surfaced",
			setupMock: func() {
				mock.ExpectExec("UPDATE history").
					WithArgs("rec-123", []byte(content)).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()

			rows, callErr := repo.ReplaceContent(ctx, "rec-123", content)
			if (callErr != nil) != tc.wantErr {
				t.Errorf("ReplaceContent() error = %v, wantErr %v", callErr, tc.wantErr)
			}
			if rows != tc.wantRows {
				t.Errorf("ReplaceContent() = %d, want %d", rows, tc.wantRows)
			}

			if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
				t.Errorf("unfulfilled expectations: %v", expectErr)
			}
		})
	}
}

func TestHistoryRepository_GetByRecordID(t *testing.T) {
	t.Helper()

	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	repo := database.NewHistoryRepository(db)
	ctx := context.Background()
	now := time.Now()

	testCases := []struct {
		name         string
		setupMock    func()
		wantRecord   bool
		wantNotFound bool
		wantErr      bool
	}{
		{
			name: "returns matching record",
			setupMock: func() {
				rows := sqlmock.NewRows(historyColumns()).
					AddRow(1, "rec-123", []byte(`{"a":1}`), testEmail, domain.TagRoadmap, nil, now)
				mock.ExpectQuery("SELECT").
					WithArgs("rec-123").
					WillReturnRows(rows)
			},
			wantRecord: true,
		},
		{
			name: "unknown key returns ErrNotFound",
			setupMock: func() {
				mock.ExpectQuery("SELECT").
					WithArgs("rec-123").
					WillReturnError(sql.ErrNoRows)
			},
			wantNotFound: true,
			wantErr:      true,
		},
		{
			name: "database error is surfaced",
			setupMock: func() {
				mock.ExpectQuery("SELECT").
					WithArgs("rec-123").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()

			rec, callErr := repo.GetByRecordID(ctx, "rec-123")
			if (callErr != nil) != tc.wantErr {
				t.Errorf("GetByRecordID() error = %v, wantErr %v", callErr, tc.wantErr)
			}
			if tc.wantNotFound && !errors.Is(callErr, domain.ErrNotFound) {
				t.Errorf("GetByRecordID() error = %v, want ErrNotFound", callErr)
			}
			if tc.wantRecord {
				if rec == nil {
					t.Fatal("GetByRecordID() returned nil record, want non-nil")
				}
				if rec.RecordID != "rec-123" {
					t.Errorf("RecordID = %q, want %q", rec.RecordID, "rec-123")
				}
			}

			if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
				t.Errorf("unfulfilled expectations: %v", expectErr)
			}
		})
	}
}

func TestHistoryRepository_ListByUserEmail(t *testing.T) {
	t.Helper()

	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	repo := database.NewHistoryRepository(db)
	ctx := context.Background()
	now := time.Now()

	testCases := []struct {
		name      string
		setupMock func()
		wantLen   int
		wantErr   bool
	}{
		{
			name: "returns all records for the user",
			setupMock: func() {
				rows := sqlmock.NewRows(historyColumns()).
					AddRow(2, "rec-2", []byte(`{"b":2}`), testEmail, domain.TagResume, "url", now).
					AddRow(1, "rec-1", []byte(`{"a":1}`), testEmail, domain.TagRoadmap, nil, now.Add(-time.Hour))
				mock.ExpectQuery("SELECT").
					WithArgs(testEmail).
					WillReturnRows(rows)
			},
			wantLen: 2,
		},
		{
			name: "no records yields empty list",
			setupMock: func() {
				mock.ExpectQuery("SELECT").
					WithArgs(testEmail).
					WillReturnRows(sqlmock.NewRows(historyColumns()))
			},
			wantLen: 0,
		},
		{
			name: "database error is surfaced",
			setupMock: func() {
				mock.ExpectQuery("SELECT").
					WithArgs(testEmail).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()

			records, callErr := repo.ListByUserEmail(ctx, testEmail)
			if (callErr != nil) != tc.wantErr {
				t.Errorf("ListByUserEmail() error = %v, wantErr %v", callErr, tc.wantErr)
			}
			if len(records) != tc.wantLen {
				t.Errorf("ListByUserEmail() returned %d records, want %d", len(records), tc.wantLen)
			}

			if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
				t.Errorf("unfulfilled expectations: %v", expectErr)
			}
		})
	}
}
