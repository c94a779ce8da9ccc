package database

import (
	"context"
	"database/sql"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shoedler/tabletop-gather/internal/models"
)

func createTestComment(t *testing.T, db *DB, plan *models.Plan, author *models.User, body string) *models.Comment {
	t.Helper()
	now := time.Now()
	comment, err := CreateComment(context.Background(), db, &models.Comment{
		PlanID:    plan.ID,
		Author:    author,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("Failed to create test comment %q: %v", body, err)
	}
	return comment
}

func TestCreateCommentAndGet(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	user1 := createTestUser(t, db, "chatuser1@example.com")
	user2 := createTestUser(t, db, "chatuser2@example.com")
	plan := createTestPlan(t, db, user1, "Chatty plan", 0, time.Now().AddDate(0, 0, 1))

	t.Run("Create and Get Comments", func(t *testing.T) {
		c1 := createTestComment(t, db, plan, user1, "Hello world from user1!")
		if c1.ID == uuid.Nil {
			t.Errorf("CreateComment() c1 ID is nil")
		}
		if c1.Author.Email != user1.Email {
			t.Errorf("CreateComment() c1 author = %s, want %s", c1.Author.Email, user1.Email)
		}
		if c1.CreatedAt.IsZero() {
			t.Errorf("CreateComment() c1 CreatedAt is zero")
		}

		// Add a small delay to ensure CreatedAt timestamps are distinct for ordering test
		time.Sleep(10 * time.Millisecond)
		c2 := createTestComment(t, db, plan, user2, "Hello back from user2!")

		all, err := GetCommentsForPlan(ctx, db, plan.ID)
		if err != nil {
			t.Fatalf("GetCommentsForPlan() error = %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("GetCommentsForPlan() count = %d, want 2", len(all))
		}
		if !reflect.DeepEqual(all[0], c1) {
			t.Errorf("GetCommentsForPlan() first got = %+v, want %+v", all[0], c1)
		}
		if !reflect.DeepEqual(all[1], c2) {
			t.Errorf("GetCommentsForPlan() second got = %+v, want %+v", all[1], c2)
		}
	})

	t.Run("Get Comments for Plan with No Comments", func(t *testing.T) {
		quiet := createTestPlan(t, db, user2, "Quiet plan", 0)
		comments, err := GetCommentsForPlan(ctx, db, quiet.ID)
		if err != nil {
			t.Fatalf("GetCommentsForPlan() for empty plan error = %v", err)
		}
		if len(comments) != 0 {
			t.Errorf("GetCommentsForPlan() for empty plan count = %d, want 0", len(comments))
		}
	})
}

func TestUpdateAndDeleteComment(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	user := createTestUser(t, db, "editor@example.com")
	plan := createTestPlan(t, db, user, "Edited plan", 0)
	comment := createTestComment(t, db, plan, user, "first draft")

	comment.Body = "second draft"
	comment.UpdatedAt = comment.CreatedAt.Add(time.Minute)
	if err := UpdateComment(ctx, db, comment); err != nil {
		t.Fatalf("UpdateComment() error = %v", err)
	}
	got, err := GetCommentByID(ctx, db, comment.ID)
	if err != nil {
		t.Fatalf("GetCommentByID() error = %v", err)
	}
	if got.Body != "second draft" || !got.UpdatedAt.Equal(comment.UpdatedAt) {
		t.Errorf("UpdateComment() stored %+v", got)
	}

	if err := DeleteComment(ctx, db, comment.ID); err != nil {
		t.Fatalf("DeleteComment() error = %v", err)
	}
	if _, err := GetCommentByID(ctx, db, comment.ID); err != sql.ErrNoRows {
		t.Errorf("GetCommentByID() after delete, got err = %v, want sql.ErrNoRows", err)
	}
	if err := UpdateComment(ctx, db, comment); err != sql.ErrNoRows {
		t.Errorf("UpdateComment() after delete, got err = %v, want sql.ErrNoRows", err)
	}
}
