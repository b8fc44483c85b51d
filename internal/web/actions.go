package web

import (
	"context"
	"errors"

	"github.com/alexanderramin/arbor/internal/contract"
	"github.com/alexanderramin/arbor/internal/service"
	"github.com/alexanderramin/arbor/internal/tree"
)

// apply runs a validated request and returns its redirect target. Absent
// targets become error redirects; only unexpected failures return an error.
func (s *Server) apply(ctx context.Context, listID string, req contract.MutationRequest) (string, error) {
	itemID := req.Optional(contract.KeyItemID)
	title := req.Optional(contract.KeyTitle)

	switch req.Action {
	case contract.ActionToggleItem:
		completed, _ := req.Bool(contract.KeyCompleted)
		node, err := s.lists.GetNodeByID(ctx, listID, itemID)
		if err != nil {
			return outcome(listID, contract.ErrCodeAction, err)
		}
		switch tree.ToggleConfirmation(node, completed) {
		case tree.ConfirmComplete:
			return contract.ConfirmRedirect(listID, itemID), nil
		case tree.ConfirmUncheck:
			return contract.ConfirmUncheckRedirect(listID, itemID), nil
		}
		_, err = s.lists.ToggleItem(ctx, listID, itemID, completed)
		return outcome(listID, contract.ErrCodeAction, err)

	case contract.ActionConfirmParent:
		_, err := s.lists.CompleteParent(ctx, listID, itemID)
		return outcome(listID, contract.ErrCodeAction, err)

	case contract.ActionConfirmUncheckParent:
		_, err := s.lists.UncheckParent(ctx, listID, itemID)
		return outcome(listID, contract.ErrCodeAction, err)

	case contract.ActionResetCompleted:
		_, err := s.lists.ResetCompletedItems(ctx, listID)
		return outcome(listID, contract.ErrCodeAction, err)

	case contract.ActionCreateItem:
		_, err := s.lists.CreateItem(ctx, listID, title, req.Optional(contract.KeyParentID))
		return outcome(listID, contract.ErrCodeAdd, err)

	case contract.ActionDeleteItem:
		_, err := s.lists.DeleteItem(ctx, listID, itemID)
		return outcome(listID, contract.ErrCodeDelete, err)

	case contract.ActionEditItemTitle:
		_, err := s.lists.UpdateItemTitle(ctx, listID, itemID, title)
		return outcome(listID, contract.ErrCodeEdit, err)

	case contract.ActionCreateList:
		l, err := s.lists.CreateList(ctx, title)
		if err != nil {
			return "", err
		}
		return contract.ListPath(l.ID), nil

	case contract.ActionEditListTitle:
		_, err := s.lists.UpdateListTitle(ctx, listID, title)
		return outcome(listID, contract.ErrCodeListEdit, err)

	case contract.ActionDeleteList:
		deleted, err := s.lists.DeleteList(ctx, listID)
		if err != nil {
			return "", err
		}
		if !deleted {
			return contract.ErrorRedirect(listID, contract.ErrCodeListDelete), nil
		}
		next, err := s.lists.GetDefaultListID(ctx)
		if err != nil {
			return "", err
		}
		if next == "" {
			return contract.ListsPath, nil
		}
		return contract.ListPath(next), nil
	}
	return "", errors.New("unhandled action " + string(req.Action))
}

func outcome(listID string, code contract.ErrorCode, err error) (string, error) {
	switch {
	case err == nil:
		return contract.ListPath(listID), nil
	case errors.Is(err, service.ErrNotFound):
		return contract.ErrorRedirect(listID, code), nil
	default:
		return "", err
	}
}
