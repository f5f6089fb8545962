package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iwtcode/robotAdapter/models"
	apperrors "github.com/iwtcode/robotAdapter/pkg/errors"
)

func TestFromRequestValidCommands(t *testing.T) {
	cmd, rerr := FromRequest(&models.Request{Command: "pick_piece", Piece: "piece 1"})
	require.Nil(t, rerr)
	require.Equal(t, CmdPickPiece, cmd.Kind)
	require.Equal(t, "piece 1", cmd.Piece)

	cmd, rerr = FromRequest(&models.Request{Command: "move_pose", Pose: []float64{1, 2, 3, 4, 5, 6}})
	require.Nil(t, rerr)
	require.Equal(t, models.Pose{X: 1, Y: 2, Z: 3, Rx: 4, Ry: 5, Rz: 6}, cmd.Pose)

	cmd, rerr = FromRequest(&models.Request{Command: "wait", Duration: 1.5})
	require.Nil(t, rerr)
	require.Equal(t, 1500*time.Millisecond, cmd.Duration)

	for _, name := range []string{"move_home", "get_pose", "get_joints", "list_positions"} {
		cmd, rerr = FromRequest(&models.Request{Command: name})
		require.Nil(t, rerr, "Команда %s не требует параметров", name)
		require.Equal(t, CommandKind(name), cmd.Kind)
	}
}

func TestFromRequestUnknownCommand(t *testing.T) {
	_, rerr := FromRequest(&models.Request{Command: "fly_to_moon"})
	require.NotNil(t, rerr)
	require.Equal(t, apperrors.KindProtocol, rerr.Kind)
	require.Equal(t, "unknown command", rerr.Message)
}

func TestFromRequestMissingFields(t *testing.T) {
	cases := []models.Request{
		{},
		{Command: "pick_piece"},
		{Command: "place_piece"},
		{Command: "move_pose", Pose: []float64{1, 2, 3}},
		{Command: "wait"},
		{Command: "wait", Duration: -1},
	}
	for _, req := range cases {
		_, rerr := FromRequest(&req)
		require.NotNil(t, rerr, "Запрос %+v должен отвергаться", req)
		require.Equal(t, apperrors.KindProtocol, rerr.Kind)
	}
}

func TestCommandArgument(t *testing.T) {
	require.Equal(t, "bin", (&Command{Kind: CmdPlacePiece, Location: "bin"}).Argument())
	require.Equal(t, "2s", (&Command{Kind: CmdWait, Duration: 2 * time.Second}).Argument())
	require.Empty(t, (&Command{Kind: CmdMoveHome}).Argument())
}
