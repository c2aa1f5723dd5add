package model

// TaskIndex is an id lookup built once per task snapshot. The stored id lists
// (dependencies, parent_epic) have no foreign-key enforcement, so every
// resolution here tolerates dangling or wrong-type references by skipping
// them instead of failing.
type TaskIndex map[string]Task

func NewTaskIndex(tasks []Task) TaskIndex {
	ix := make(TaskIndex, len(tasks))
	for _, t := range tasks {
		ix[t.ID] = t
	}
	return ix
}

// ParentEpic resolves the task's parent epic. A missing id or a reference to
// a non-epic task yields ok=false.
func (ix TaskIndex) ParentEpic(t Task) (Task, bool) {
	if t.ParentEpic == "" {
		return Task{}, false
	}
	parent, ok := ix[t.ParentEpic]
	if !ok || parent.TaskType != TypeEpic {
		return Task{}, false
	}
	return parent, true
}

// Dependencies resolves the task's dependency ids, dropping dangling ones.
func (ix TaskIndex) Dependencies(t Task) []Task {
	if len(t.Dependencies) == 0 {
		return nil
	}
	out := make([]Task, 0, len(t.Dependencies))
	for _, id := range t.Dependencies {
		if dep, ok := ix[id]; ok {
			out = append(out, dep)
		}
	}
	return out
}

// ChildrenOf returns the tasks whose parent_epic points at the given epic, in
// snapshot order.
func (ix TaskIndex) ChildrenOf(tasks []Task, epicID string) []Task {
	var out []Task
	for _, t := range tasks {
		if t.ParentEpic == epicID {
			out = append(out, t)
		}
	}
	return out
}
