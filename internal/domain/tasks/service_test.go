package tasks

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"family-tasks-go/internal/domain/access"
	"family-tasks-go/internal/domain/lists"
	"family-tasks-go/internal/domain/ownership"
	"family-tasks-go/internal/domain/user"
	"family-tasks-go/internal/validation"
)

type fakeTaskRepo struct {
	users map[string]*user.User
	lists map[string]*lists.List
	tasks map[string]*Task
	clock time.Time

	lockedUsers []string
	lockedTasks []string
	// beforeUserLock runs ahead of a locked user read, standing in for a
	// transaction that commits while this one waits on the row.
	beforeUserLock func(id string)
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{
		users: make(map[string]*user.User),
		lists: make(map[string]*lists.List),
		tasks: make(map[string]*Task),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *fakeTaskRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeTaskRepo) GetUser(ctx context.Context, id string) (*user.User, error) {
	return r.users[id], nil
}

func (r *fakeTaskRepo) GetUserForUpdate(ctx context.Context, id string) (*user.User, error) {
	if r.beforeUserLock != nil {
		r.beforeUserLock(id)
	}
	r.lockedUsers = append(r.lockedUsers, id)
	return r.users[id], nil
}

func (r *fakeTaskRepo) GetTaskForUpdate(ctx context.Context, id string) (*Task, error) {
	r.lockedTasks = append(r.lockedTasks, id)
	return r.GetTask(ctx, id)
}

func (r *fakeTaskRepo) GetList(ctx context.Context, id string) (*lists.List, error) {
	return r.lists[id], nil
}

func (r *fakeTaskRepo) GetTask(ctx context.Context, id string) (*Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	stored := *task
	return &stored, nil
}

func (r *fakeTaskRepo) CreateTask(ctx context.Context, task *Task) error {
	r.clock = r.clock.Add(time.Minute)
	task.CreatedAt = r.clock
	stored := *task
	r.tasks[task.ID] = &stored
	return nil
}

func (r *fakeTaskRepo) UpdateTask(ctx context.Context, task *Task) error {
	stored := *task
	r.tasks[task.ID] = &stored
	return nil
}

func (r *fakeTaskRepo) DeleteTask(ctx context.Context, id string) error {
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) ListByList(ctx context.Context, listID string) ([]Task, error) {
	return r.filter(func(task *Task) bool { return task.ListID == listID }), nil
}

func (r *fakeTaskRepo) ListByAssignee(ctx context.Context, userID string) ([]Task, error) {
	return r.filter(func(task *Task) bool { return task.UserID == userID }), nil
}

func (r *fakeTaskRepo) ListByFamily(ctx context.Context, familyID string) ([]Task, error) {
	return r.filter(func(task *Task) bool {
		list, ok := r.lists[task.ListID]
		return ok && list.FamilyID != nil && *list.FamilyID == familyID
	}), nil
}

func (r *fakeTaskRepo) filter(keep func(*Task) bool) []Task {
	result := make([]Task, 0)
	for _, task := range r.tasks {
		if keep(task) {
			result = append(result, *task)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result
}

func (r *fakeTaskRepo) addUser(id, familyID string, isAdmin bool) {
	u := &user.User{ID: id, IsAdmin: isAdmin}
	if familyID != "" {
		u.FamilyID = &familyID
	}
	r.users[id] = u
}

func (r *fakeTaskRepo) addList(t *testing.T, id string, owner ownership.Owner) {
	t.Helper()
	list, err := lists.New(id, "", owner)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	list.ID = id
	r.lists[id] = list
}

func mustOwner(t *testing.T, owner ownership.Owner, err error) ownership.Owner {
	t.Helper()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return owner
}

// seededRepo: fam-1 has admin A and member B with one family list; each
// user has a personal list; outsider C is admin of fam-2.
func seededRepo(t *testing.T) *fakeTaskRepo {
	repo := newFakeTaskRepo()
	repo.addUser("A", "fam-1", true)
	repo.addUser("B", "fam-1", false)
	repo.addUser("C", "fam-2", true)

	famOwner, err := ownership.Family("fam-1")
	repo.addList(t, "family", mustOwner(t, famOwner, err))
	aOwner, err := ownership.Personal("A")
	repo.addList(t, "a-personal", mustOwner(t, aOwner, err))
	bOwner, err := ownership.Personal("B")
	repo.addList(t, "b-personal", mustOwner(t, bOwner, err))
	return repo
}

func strPtr(s string) *string {
	return &s
}

func expectDenied(t *testing.T, err error, reason access.Reason) {
	t.Helper()
	got, ok := access.ReasonOf(err)
	if !ok {
		t.Fatalf("expected permission denied (%s), got %v", reason, err)
	}
	if got != reason {
		t.Fatalf("expected reason %q, got %q", reason, got)
	}
}

func TestCreateTaskDefaultsToActor(t *testing.T) {
	service := NewService(seededRepo(t))

	task, err := service.CreateTask(context.Background(), "B", CreateTaskInput{ListID: "family", Title: " Dishes "})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if task.UserID != "B" || task.Title != "Dishes" || task.Completed {
		t.Fatalf("unexpected task %+v", task)
	}
}

func TestMemberCannotAssignFamilyTaskToAdmin(t *testing.T) {
	service := NewService(seededRepo(t))

	_, err := service.CreateTask(context.Background(), "B", CreateTaskInput{ListID: "family", Title: "Dishes", AssigneeID: strPtr("A")})
	expectDenied(t, err, access.ReasonAssignToOthers)
	if err.Error() != "not enough permissions to assign tasks to others" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestAdminAssignsFamilyTaskToMember(t *testing.T) {
	repo := seededRepo(t)
	service := NewService(repo)
	ctx := context.Background()

	task, err := service.CreateTask(ctx, "A", CreateTaskInput{ListID: "family", Title: "Laundry", AssigneeID: strPtr("B")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if task.UserID != "B" {
		t.Fatalf("expected task assigned to B, got %s", task.UserID)
	}

	familyTasks, err := service.ListFamilyTasks(ctx, "A")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(familyTasks) != 1 || familyTasks[0].ID != task.ID {
		t.Fatalf("expected task in family query, got %+v", familyTasks)
	}

	_, err = service.CreateTask(ctx, "A", CreateTaskInput{ListID: "family", Title: "Laundry", AssigneeID: strPtr("C")})
	expectDenied(t, err, access.ReasonAssignOutsideFamily)
}

func TestCreateTaskInPersonalList(t *testing.T) {
	service := NewService(seededRepo(t))
	ctx := context.Background()

	if _, err := service.CreateTask(ctx, "A", CreateTaskInput{ListID: "a-personal", Title: "Run"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err := service.CreateTask(ctx, "A", CreateTaskInput{ListID: "b-personal", Title: "Run"})
	expectDenied(t, err, access.ReasonTaskInOthersList)

	_, err = service.CreateTask(ctx, "A", CreateTaskInput{ListID: "a-personal", Title: "Run", AssigneeID: strPtr("B")})
	expectDenied(t, err, access.ReasonAssignToOthers)

	_, err = service.CreateTask(ctx, "C", CreateTaskInput{ListID: "family", Title: "Run"})
	expectDenied(t, err, access.ReasonTaskInOtherFamilyList)
}

func TestCreateTaskErrors(t *testing.T) {
	service := NewService(seededRepo(t))
	ctx := context.Background()

	_, err := service.CreateTask(ctx, "A", CreateTaskInput{ListID: "family", Title: "  "})
	var validationErr validation.ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "title" {
		t.Fatalf("expected title validation error, got %v", err)
	}

	if _, err := service.CreateTask(ctx, "A", CreateTaskInput{ListID: "missing", Title: "x"}); !errors.Is(err, lists.ErrListNotFound) {
		t.Fatalf("expected ErrListNotFound, got %v", err)
	}
	if _, err := service.CreateTask(ctx, "A", CreateTaskInput{ListID: "family", Title: "x", AssigneeID: strPtr("ghost")}); !errors.Is(err, user.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCreateTaskLocksAssignee(t *testing.T) {
	repo := seededRepo(t)
	service := NewService(repo)
	ctx := context.Background()

	if _, err := service.CreateTask(ctx, "A", CreateTaskInput{ListID: "family", Title: "Laundry", AssigneeID: strPtr("B")}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.lockedUsers) != 1 || repo.lockedUsers[0] != "B" {
		t.Fatalf("expected assignee B to be locked, got %v", repo.lockedUsers)
	}

	repo.lockedUsers = nil
	if _, err := service.CreateTask(ctx, "B", CreateTaskInput{ListID: "family", Title: "Dishes"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.lockedUsers) != 1 || repo.lockedUsers[0] != "B" {
		t.Fatalf("expected acting assignee B to be locked, got %v", repo.lockedUsers)
	}
}

func TestCreateTaskAfterAssigneeLeft(t *testing.T) {
	repo := seededRepo(t)
	service := NewService(repo)
	repo.beforeUserLock = func(id string) {
		if id == "B" {
			repo.users["B"].FamilyID = nil
		}
	}

	_, err := service.CreateTask(context.Background(), "A", CreateTaskInput{ListID: "family", Title: "Laundry", AssigneeID: strPtr("B")})
	expectDenied(t, err, access.ReasonAssignOutsideFamily)
	if len(repo.tasks) != 0 {
		t.Fatalf("expected no task to be stored, got %d", len(repo.tasks))
	}
}

func TestReassignAfterAssigneeLeft(t *testing.T) {
	repo := seededRepo(t)
	service := NewService(repo)
	ctx := context.Background()

	task, err := service.CreateTask(ctx, "A", CreateTaskInput{ListID: "family", Title: "Laundry"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	repo.beforeUserLock = func(id string) {
		if id == "B" {
			repo.users["B"].FamilyID = nil
		}
	}
	_, err = service.UpdateTask(ctx, "A", task.ID, UpdateTaskInput{AssigneeID: strPtr("B")})
	expectDenied(t, err, access.ReasonAssignOutsideFamily)
	if repo.tasks[task.ID].UserID != "A" {
		t.Fatalf("expected task to stay with A, got %s", repo.tasks[task.ID].UserID)
	}
}

func TestTaskWritesLockTaskRow(t *testing.T) {
	repo := seededRepo(t)
	service := NewService(repo)
	ctx := context.Background()

	task, err := service.CreateTask(ctx, "B", CreateTaskInput{ListID: "family", Title: "Dishes"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := service.UpdateTask(ctx, "B", task.ID, UpdateTaskInput{Title: strPtr("Dishes tonight")}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := service.SetCompleted(ctx, "B", task.ID, true); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := service.GetTask(ctx, "B", task.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.lockedTasks) != 2 {
		t.Fatalf("expected update and status change to lock the task, got %v", repo.lockedTasks)
	}
}

func TestUpdateTask(t *testing.T) {
	repo := seededRepo(t)
	service := NewService(repo)
	ctx := context.Background()

	task, err := service.CreateTask(ctx, "B", CreateTaskInput{ListID: "family", Title: "Dishes"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	updated, err := service.UpdateTask(ctx, "A", task.ID, UpdateTaskInput{Title: strPtr("Dishes tonight"), Notes: strPtr("with soap")})
	if err != nil {
		t.Fatalf("expected admin to edit member task, got %v", err)
	}
	if updated.Title != "Dishes tonight" || updated.Notes == nil || *updated.Notes != "with soap" {
		t.Fatalf("unexpected task %+v", updated)
	}

	_, err = service.UpdateTask(ctx, "C", task.ID, UpdateTaskInput{Title: strPtr("x")})
	expectDenied(t, err, access.ReasonUpdateOthersTask)

	_, err = service.UpdateTask(ctx, "B", task.ID, UpdateTaskInput{AssigneeID: strPtr("A")})
	expectDenied(t, err, access.ReasonAssignToOthers)

	reassigned, err := service.UpdateTask(ctx, "A", task.ID, UpdateTaskInput{AssigneeID: strPtr("A")})
	if err != nil {
		t.Fatalf("expected admin reassignment, got %v", err)
	}
	if reassigned.UserID != "A" || repo.tasks[task.ID].UserID != "A" {
		t.Fatalf("expected task reassigned to A, got %+v", reassigned)
	}

	_, err = service.UpdateTask(ctx, "B", task.ID, UpdateTaskInput{Title: strPtr("mine now")})
	expectDenied(t, err, access.ReasonUpdateOthersTask)
}

func TestSetCompletedIsAssigneeOnly(t *testing.T) {
	repo := seededRepo(t)
	service := NewService(repo)
	ctx := context.Background()

	task, err := service.CreateTask(ctx, "A", CreateTaskInput{ListID: "family", Title: "Laundry", AssigneeID: strPtr("B")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err = service.SetCompleted(ctx, "A", task.ID, true)
	expectDenied(t, err, access.ReasonSetOthersTaskStatus)

	done, err := service.SetCompleted(ctx, "B", task.ID, true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !done.Completed || !repo.tasks[task.ID].Completed {
		t.Fatalf("expected task to be completed")
	}
}

func TestDeleteTask(t *testing.T) {
	repo := seededRepo(t)
	service := NewService(repo)
	ctx := context.Background()

	task, err := service.CreateTask(ctx, "A", CreateTaskInput{ListID: "family", Title: "Laundry", AssigneeID: strPtr("B")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := service.DeleteTask(ctx, "B", task.ID); !errors.Is(err, ErrIncompleteTaskDeletion) {
		t.Fatalf("expected ErrIncompleteTaskDeletion, got %v", err)
	}
	if err := service.DeleteTask(ctx, "A", task.ID); !errors.Is(err, ErrIncompleteTaskDeletion) {
		t.Fatalf("expected ErrIncompleteTaskDeletion for admin too, got %v", err)
	}

	if _, err := service.SetCompleted(ctx, "B", task.ID, true); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	err = service.DeleteTask(ctx, "A", task.ID)
	expectDenied(t, err, access.ReasonDeleteOthersTask)

	if err := service.DeleteTask(ctx, "B", task.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := repo.tasks[task.ID]; ok {
		t.Fatalf("expected task to be deleted")
	}
	if err := service.DeleteTask(ctx, "B", task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestReadTasks(t *testing.T) {
	repo := seededRepo(t)
	service := NewService(repo)
	ctx := context.Background()

	first, err := service.CreateTask(ctx, "B", CreateTaskInput{ListID: "family", Title: "first"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := service.CreateTask(ctx, "A", CreateTaskInput{ListID: "family", Title: "second"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	private, err := service.CreateTask(ctx, "A", CreateTaskInput{ListID: "a-personal", Title: "private"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	listTasks, err := service.ListListTasks(ctx, "B", "family")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(listTasks) != 2 || listTasks[0].ID != second.ID || listTasks[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", listTasks)
	}

	_, err = service.ListListTasks(ctx, "B", "a-personal")
	expectDenied(t, err, access.ReasonReadOthersList)

	if _, err := service.GetTask(ctx, "B", second.ID); err != nil {
		t.Fatalf("expected member to read family task, got %v", err)
	}
	_, err = service.GetTask(ctx, "B", private.ID)
	expectDenied(t, err, access.ReasonReadOthersTask)

	mine, err := service.ListMyTasks(ctx, "A")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 tasks assigned to A, got %d", len(mine))
	}

	_, err = service.ListFamilyTasks(ctx, "C")
	if err != nil {
		t.Fatalf("expected outsider to read own family tasks, got %v", err)
	}
}
