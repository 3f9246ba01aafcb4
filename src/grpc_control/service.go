package grpc_control

import (
	"context"
	"encoding/json"
	"fmt"
	"net"

	datasource "crypto-analyst/src/data_source"
	"crypto-analyst/src/helpers"
	"crypto-analyst/src/logger"
	"crypto-analyst/src/models"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const defaultPort = 50051

// Refresher is the presentation-side entry point shared by every trigger,
// so the last delivered report stays the same whichever adapter asked.
type Refresher interface {
	RunRefresh(ctx context.Context, opts models.MAnalysisOptions) (*models.MReport, error)
	LatestReport() *models.MReport
}

// ControlService implements the AnalystControlServer interface
type ControlService struct {
	Refresher  Refresher
	DataSource *datasource.SourceManager
	Logger     *logger.Logger
}

var _ AnalystControlServer = (*ControlService)(nil)

// NewControlService creates a new instance of ControlService
func NewControlService(refresher Refresher, ds *datasource.SourceManager, log *logger.Logger) *ControlService {
	return &ControlService{
		Refresher:  refresher,
		DataSource: ds,
		Logger:     log,
	}
}

// -----------------------------------------------------------------------------

func (s *ControlService) Refresh(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var opts models.MAnalysisOptions
	if err := fromStruct(req, &opts); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid options: %v", err)
	}

	report, err := s.Refresher.RunRefresh(ctx, opts)
	if err != nil {
		return nil, toStatus(err)
	}
	s.Logger.Info("gRPC: Refresh delivered report %s", report.ID)
	return toStruct(report)
}

// -----------------------------------------------------------------------------

func (s *ControlService) GetReport(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	report := s.Refresher.LatestReport()
	if report == nil {
		return nil, status.Error(codes.NotFound, "no report has been generated yet")
	}
	return toStruct(report)
}

// -----------------------------------------------------------------------------

func (s *ControlService) ListSources(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	names := s.DataSource.Names()
	list := make([]interface{}, len(names))
	for i, n := range names {
		list[i] = n
	}
	return structpb.NewStruct(map[string]interface{}{
		"sources": list,
		"active":  s.DataSource.Name(),
	})
}

// -----------------------------------------------------------------------------

// SetSource switches the provider used by subsequent refreshes.
func (s *ControlService) SetSource(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name := req.GetFields()["name"].GetStringValue()
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "name is required")
	}
	if err := s.DataSource.SetActive(name); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}
	s.Logger.Info("gRPC: active source set to %s", name)

	return structpb.NewStruct(map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Active source set to %s", name),
	})
}

// -----------------------------------------------------------------------------

func (s *ControlService) Health(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	latest := ""
	if r := s.Refresher.LatestReport(); r != nil {
		latest = r.ID
	}
	return structpb.NewStruct(map[string]interface{}{
		"status":        "ok",
		"provider":      s.DataSource.Name(),
		"latest_report": latest,
	})
}

// -----------------------------------------------------------------------------

// Serve listens on the configured gRPC address until the server is stopped.
func Serve(cfg *models.MConfig, grpcServer *grpc.Server, log *logger.Logger) error {
	port := cfg.GrpcPort
	if port == 0 {
		port = defaultPort
	}
	addr := fmt.Sprintf("%s:%d", cfg.GrpcHost, port)

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC on %s: %w", addr, err)
	}
	log.Info("Starting gRPC Control Server on %s", addr)
	return grpcServer.Serve(lis)
}

// -----------------------------------------------------------------------------

// toStatus maps pipeline error kinds to gRPC codes.
func toStatus(err error) error {
	switch helpers.Kind(err) {
	case helpers.KindDataUnavailable:
		return status.Error(codes.Unavailable, err.Error())
	case helpers.KindReportIncomplete:
		return status.Error(codes.FailedPrecondition, err.Error())
	case helpers.KindValidation:
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// -----------------------------------------------------------------------------

func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "encode: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode: %v", err)
	}
	return out, nil
}

// -----------------------------------------------------------------------------

func fromStruct(in *structpb.Struct, v interface{}) error {
	if in == nil {
		return nil
	}
	raw, err := json.Marshal(in.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
