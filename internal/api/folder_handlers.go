package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/openclaw/bookmark-server/internal/domain"
	"github.com/openclaw/bookmark-server/internal/service"
)

func (s *Server) registerFolderRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listFolders",
		Method:      http.MethodGet,
		Path:        "/api/folders",
		Summary:     "List folders",
		Description: "Returns all folders with bookmark and subfolder counts",
		Tags:        []string{"Folders"},
	}, s.handleListFolders)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFolderTree",
		Method:      http.MethodGet,
		Path:        "/api/folders/tree",
		Summary:     "Get folder tree",
		Description: "Returns the nested folder hierarchy",
		Tags:        []string{"Folders"},
	}, s.handleGetFolderTree)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFolder",
		Method:      http.MethodGet,
		Path:        "/api/folders/{id}",
		Summary:     "Get folder",
		Description: "Returns a folder with the bookmarks directly inside it",
		Tags:        []string{"Folders"},
	}, s.handleGetFolder)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createFolder",
		Method:        http.MethodPost,
		Path:          "/api/folders",
		Summary:       "Create folder",
		Description:   "Creates a folder, optionally nested under a parent",
		Tags:          []string{"Folders"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateFolder)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateFolder",
		Method:      http.MethodPut,
		Path:        "/api/folders/{id}",
		Summary:     "Update folder",
		Description: "Renames, re-describes, or reparents a folder",
		Tags:        []string{"Folders"},
	}, s.handleUpdateFolder)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteFolder",
		Method:      http.MethodDelete,
		Path:        "/api/folders/{id}",
		Summary:     "Delete folder",
		Description: "Deletes a folder, promoting its bookmarks to the parent",
		Tags:        []string{"Folders"},
	}, s.handleDeleteFolder)
}

// === DTOs ===

// FolderResponse contains folder data in API responses.
type FolderResponse struct {
	ID             string    `json:"id" doc:"Folder ID"`
	Name           string    `json:"name" doc:"Folder name"`
	Description    string    `json:"description,omitempty" doc:"Optional description"`
	ParentID       *string   `json:"parent_id" doc:"Parent folder ID, null for roots"`
	CreatedAt      time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt      time.Time `json:"updated_at" doc:"Last update time"`
	BookmarkCount  int       `json:"bookmark_count" doc:"Direct bookmark count"`
	SubfolderCount int       `json:"subfolder_count" doc:"Direct subfolder count"`
}

func folderResponse(f *domain.Folder) FolderResponse {
	return FolderResponse{
		ID:             f.ID,
		Name:           f.Name,
		Description:    f.Description,
		ParentID:       f.ParentID,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
		BookmarkCount:  f.BookmarkCount,
		SubfolderCount: f.SubfolderCount,
	}
}

// FolderDetailResponse is a folder plus the bookmarks directly inside it.
type FolderDetailResponse struct {
	FolderResponse
	Bookmarks []BookmarkResponse `json:"bookmarks" doc:"Bookmarks directly in this folder"`
}

// FolderTreeNode is a folder with its nested children.
type FolderTreeNode struct {
	FolderResponse
	Children []FolderTreeNode `json:"children" doc:"Child folders, ordered by name"`
}

func folderTreeNodes(nodes []*domain.FolderNode) []FolderTreeNode {
	resp := make([]FolderTreeNode, len(nodes))
	for i, n := range nodes {
		resp[i] = FolderTreeNode{
			FolderResponse: folderResponse(&n.Folder),
			Children:       folderTreeNodes(n.Children),
		}
	}
	return resp
}

// ListFoldersOutput wraps the folder list for Huma.
type ListFoldersOutput struct {
	Body []FolderResponse
}

// FolderTreeOutput wraps the folder tree for Huma.
type FolderTreeOutput struct {
	Body []FolderTreeNode
}

// GetFolderInput contains parameters for fetching a folder.
type GetFolderInput struct {
	ID string `path:"id" doc:"Folder ID"`
}

// FolderDetailOutput wraps a folder with its bookmarks for Huma.
type FolderDetailOutput struct {
	Body FolderDetailResponse
}

// FolderOutput wraps a single folder for Huma.
type FolderOutput struct {
	Body FolderResponse
}

// CreateFolderRequest is the request body for creating a folder.
type CreateFolderRequest struct {
	Name        string  `json:"name,omitempty" doc:"Folder name"`
	Description string  `json:"description,omitempty" doc:"Optional description"`
	ParentID    *string `json:"parent_id,omitempty" doc:"Parent folder ID"`
}

// CreateFolderInput wraps the create request for Huma.
type CreateFolderInput struct {
	Body CreateFolderRequest
}

// UpdateFolderRequest is the request body for updating a folder. Name and
// description are partial; parent_id is always applied, so omitting it
// moves the folder to the root.
type UpdateFolderRequest struct {
	Name        *string `json:"name,omitempty" doc:"Folder name"`
	Description *string `json:"description,omitempty" doc:"Description"`
	ParentID    *string `json:"parent_id,omitempty" doc:"Parent folder ID, omit for root"`
}

// UpdateFolderInput wraps the update request for Huma.
type UpdateFolderInput struct {
	ID   string `path:"id" doc:"Folder ID"`
	Body UpdateFolderRequest
}

// DeleteFolderInput contains parameters for deleting a folder.
type DeleteFolderInput struct {
	ID string `path:"id" doc:"Folder ID"`
}

// === Handlers ===

func (s *Server) handleListFolders(ctx context.Context, _ *struct{}) (*ListFoldersOutput, error) {
	folders, err := s.folders.ListFolders(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]FolderResponse, len(folders))
	for i, f := range folders {
		resp[i] = folderResponse(f)
	}
	return &ListFoldersOutput{Body: resp}, nil
}

func (s *Server) handleGetFolderTree(ctx context.Context, _ *struct{}) (*FolderTreeOutput, error) {
	roots, err := s.folders.FolderTree(ctx)
	if err != nil {
		return nil, err
	}
	return &FolderTreeOutput{Body: folderTreeNodes(roots)}, nil
}

func (s *Server) handleGetFolder(ctx context.Context, input *GetFolderInput) (*FolderDetailOutput, error) {
	f, bookmarks, err := s.folders.GetFolder(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &FolderDetailOutput{
		Body: FolderDetailResponse{
			FolderResponse: folderResponse(f),
			Bookmarks:      bookmarkResponses(bookmarks),
		},
	}, nil
}

func (s *Server) handleCreateFolder(ctx context.Context, input *CreateFolderInput) (*FolderOutput, error) {
	f, err := s.folders.CreateFolder(ctx, service.CreateFolderRequest{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		ParentID:    input.Body.ParentID,
	})
	if err != nil {
		return nil, err
	}
	return &FolderOutput{Body: folderResponse(f)}, nil
}

func (s *Server) handleUpdateFolder(ctx context.Context, input *UpdateFolderInput) (*FolderOutput, error) {
	f, err := s.folders.UpdateFolder(ctx, input.ID, service.UpdateFolderRequest{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		ParentID:    input.Body.ParentID,
	})
	if err != nil {
		return nil, err
	}
	return &FolderOutput{Body: folderResponse(f)}, nil
}

func (s *Server) handleDeleteFolder(ctx context.Context, input *DeleteFolderInput) (*MessageOutput, error) {
	if err := s.folders.DeleteFolder(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Folder deleted"}}, nil
}
