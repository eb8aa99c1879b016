/*
Package utils provides decorators that are useful in front of any handler:
panic recovery and logging of every delivered deploy.
*/
package utils
